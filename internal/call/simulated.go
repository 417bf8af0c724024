package call

import (
	"context"
	"errors"
	"sync"
)

// SimulatedDevices is the shipped Devices implementation: media acquisition
// is simulated locally, matching the engine's no-real-transport design.
// Tests drive it too (device lists and forced failures are configurable).
type SimulatedDevices struct {
	mu      sync.Mutex
	devices []DeviceInfo
	fail    error
}

// NewSimulatedDevices builds an adapter exposing the given devices. With no
// arguments it exposes one camera and one microphone.
func NewSimulatedDevices(devices ...DeviceInfo) *SimulatedDevices {
	if len(devices) == 0 {
		devices = []DeviceInfo{
			{DeviceID: "cam-front", Kind: DeviceVideoInput, Label: "Front Camera"},
			{DeviceID: "mic-default", Kind: DeviceAudioInput, Label: "Microphone"},
		}
	}
	return &SimulatedDevices{devices: devices}
}

// FailWith makes subsequent acquisitions fail with err; nil restores
// normal behavior.
func (s *SimulatedDevices) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *SimulatedDevices) GetUserMedia(_ context.Context, c Constraints) (*Stream, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fail != nil {
		return nil, s.fail
	}

	var tracks []*Track
	if c.Audio {
		if d, ok := s.firstOfKind(DeviceAudioInput, ""); ok {
			tracks = append(tracks, NewTrack(TrackAudio, d.DeviceID, d.Label))
		}
	}
	if c.Video {
		d, ok := s.firstOfKind(DeviceVideoInput, c.VideoDeviceID)
		if !ok {
			return nil, errors.New("no video input device")
		}
		tracks = append(tracks, NewTrack(TrackVideo, d.DeviceID, d.Label))
	}
	return NewStream(tracks...), nil
}

func (s *SimulatedDevices) EnumerateDevices(_ context.Context) ([]DeviceInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]DeviceInfo(nil), s.devices...), nil
}

func (s *SimulatedDevices) firstOfKind(kind, deviceID string) (DeviceInfo, bool) {
	for _, d := range s.devices {
		if d.Kind != kind {
			continue
		}
		if deviceID != "" && d.DeviceID != deviceID {
			continue
		}
		return d, true
	}
	return DeviceInfo{}, false
}
