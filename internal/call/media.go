package call

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// TrackKind distinguishes audio and video tracks.
type TrackKind string

const (
	TrackAudio TrackKind = "audio"
	TrackVideo TrackKind = "video"
)

// Device kinds reported by EnumerateDevices.
const (
	DeviceVideoInput = "videoinput"
	DeviceAudioInput = "audioinput"
)

// DeviceInfo describes one capture device.
type DeviceInfo struct {
	DeviceID string
	Kind     string
	Label    string
}

// Constraints select what GetUserMedia should acquire.
type Constraints struct {
	Audio         bool
	Video         bool
	VideoDeviceID string
}

// Devices is the media device adapter boundary (getUserMedia-style
// acquisition plus enumeration). External collaborator; fakeable in tests.
type Devices interface {
	GetUserMedia(ctx context.Context, c Constraints) (*Stream, error)
	EnumerateDevices(ctx context.Context) ([]DeviceInfo, error)
}

// Track is a single captured media track. Mutation goes through the call
// machine only; UI components read.
type Track struct {
	ID       string
	Kind     TrackKind
	DeviceID string
	Label    string

	mu      sync.Mutex
	enabled bool
	stopped bool
}

// NewTrack creates an enabled track for the given device.
func NewTrack(kind TrackKind, deviceID, label string) *Track {
	return &Track{
		ID:       uuid.NewString(),
		Kind:     kind,
		DeviceID: deviceID,
		Label:    label,
		enabled:  true,
	}
}

func (t *Track) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

func (t *Track) setEnabled(v bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = v
}

// Stop releases the track. Idempotent.
func (t *Track) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *Track) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// Stream is a set of live tracks, exclusively owned by the call machine.
type Stream struct {
	mu     sync.Mutex
	tracks []*Track
}

// NewStream bundles tracks into a stream.
func NewStream(tracks ...*Track) *Stream {
	return &Stream{tracks: tracks}
}

func (s *Stream) Tracks() []*Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Track(nil), s.tracks...)
}

func (s *Stream) tracksOfKind(kind TrackKind) []*Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Track
	for _, t := range s.tracks {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

// VideoTracks returns the stream's video tracks.
func (s *Stream) VideoTracks() []*Track { return s.tracksOfKind(TrackVideo) }

// AudioTracks returns the stream's audio tracks.
func (s *Stream) AudioTracks() []*Track { return s.tracksOfKind(TrackAudio) }

func (s *Stream) addTrack(t *Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracks = append(s.tracks, t)
}

func (s *Stream) removeTrack(t *Track) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.tracks {
		if cur == t {
			s.tracks = append(s.tracks[:i], s.tracks[i+1:]...)
			return
		}
	}
}

func (s *Stream) stopAll() {
	for _, t := range s.Tracks() {
		t.Stop()
	}
}
