// Package call owns the call-session state machine and the local media
// stream. States run Idle → Connecting → Active → Idle, with an alternate
// Incoming entry for receiver-initiated flows. Media acquisition is
// simulated through the Devices adapter; there is no real signaling.
package call

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/musedating/muse-engine/internal/clock"
)

// State is the machine's lifecycle position.
type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateIncoming   State = "incoming"
	StateActive     State = "active"
)

// Type selects audio-only or video calls.
type Type string

const (
	TypeAudio Type = "audio"
	TypeVideo Type = "video"
)

const historyLimit = 50

var (
	// ErrCallInProgress guards the one-active-session invariant.
	ErrCallInProgress = errors.New("call: session already in progress")
	// ErrMediaUnavailable surfaces device-adapter failures; the call itself
	// proceeds with no local stream.
	ErrMediaUnavailable = errors.New("call: could not acquire media")
)

// HistoryEntry records a finished call. At most historyLimit entries are
// retained, newest last.
type HistoryEntry struct {
	CounterpartID string
	Type          Type
	StartedAt     time.Time
	Duration      time.Duration
}

// Session is a read-side snapshot of the machine for rendering.
type Session struct {
	IsActive      bool
	IsIncoming    bool
	State         State
	Type          Type
	CounterpartID string
	RoomToken     string
	StartedAt     time.Time
	VideoEnabled  bool
	AudioEnabled  bool
}

// JoinedPayload accompanies EventJoined.
type JoinedPayload struct {
	RoomToken string
	UserName  string
}

// EndedPayload accompanies EventEnded.
type EndedPayload struct {
	CounterpartID string
	Duration      time.Duration
}

// Machine coordinates call state and the local media stream. Exactly one
// session may be live per machine; the stream is owned here and mutated
// only through ToggleVideo/ToggleAudio/SwitchCamera.
type Machine struct {
	devices Devices
	clock   clock.Clock
	log     *slog.Logger

	Events Emitter

	mu            sync.Mutex
	state         State
	isIncoming    bool
	callType      Type
	counterpartID string
	roomToken     string
	startedAt     time.Time
	videoEnabled  bool
	audioEnabled  bool
	localStream   *Stream
	history       []HistoryEntry
}

// NewMachine wires the media adapter and clock into an idle machine.
func NewMachine(devices Devices, clk clock.Clock, log *slog.Logger) *Machine {
	if clk == nil {
		clk = clock.System()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Machine{
		devices:      devices,
		clock:        clk,
		log:          log,
		state:        StateIdle,
		videoEnabled: true,
		audioEnabled: true,
	}
}

// InitiateCall is the caller-side optimistic transition: the session is
// marked live before any signaling completes.
func (m *Machine) InitiateCall(counterpartID string, t Type) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle {
		return ErrCallInProgress
	}
	m.state = StateConnecting
	m.isIncoming = false
	m.callType = t
	m.counterpartID = counterpartID
	m.startedAt = m.clock.Now()
	m.log.Debug("call initiated", "counterpart", counterpartID, "type", string(t))
	return nil
}

// ReceiveCall enters the Incoming state for a receiver-initiated flow;
// JoinRoom answers it.
func (m *Machine) ReceiveCall(counterpartID string, t Type) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle {
		return ErrCallInProgress
	}
	m.state = StateIncoming
	m.isIncoming = true
	m.callType = t
	m.counterpartID = counterpartID
	m.startedAt = m.clock.Now()
	return nil
}

// CreateRoom mints a room token for the session.
func (m *Machine) CreateRoom(matchID string, t Type) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.roomToken = fmt.Sprintf("muse-%s-%d", matchID, m.clock.Now().UnixMilli())
	m.callType = t
	return m.roomToken
}

// JoinRoom activates the session and acquires a local stream sized to the
// call type (audio-only omits video tracks). A device failure does not kill
// the call: the machine proceeds with a nil stream and the error is
// surfaced for the UI to render as a connection problem.
func (m *Machine) JoinRoom(ctx context.Context, roomToken, userName string, videoEnabled bool) (*Stream, error) {
	m.mu.Lock()
	m.roomToken = roomToken
	m.state = StateActive
	m.videoEnabled = videoEnabled && m.callType != TypeAudio
	m.audioEnabled = true
	wantVideo := m.videoEnabled
	m.mu.Unlock()

	stream, err := m.devices.GetUserMedia(ctx, Constraints{Audio: true, Video: wantVideo})
	if err != nil {
		m.log.Warn("could not get media devices", "err", err)
		m.mu.Lock()
		m.localStream = nil
		m.mu.Unlock()
		m.Events.emit(EventJoined, JoinedPayload{RoomToken: roomToken, UserName: userName})
		return nil, fmt.Errorf("%w: %v", ErrMediaUnavailable, err)
	}

	m.mu.Lock()
	m.localStream = stream
	m.mu.Unlock()

	m.Events.emit(EventJoined, JoinedPayload{RoomToken: roomToken, UserName: userName})
	return stream, nil
}

// ToggleVideo flips the video flag, applies it to live video tracks and
// returns the new state.
func (m *Machine) ToggleVideo() bool {
	m.mu.Lock()
	m.videoEnabled = !m.videoEnabled
	enabled := m.videoEnabled
	stream := m.localStream
	m.mu.Unlock()

	if stream != nil {
		for _, t := range stream.VideoTracks() {
			t.setEnabled(enabled)
		}
	}
	m.Events.emit(EventVideoToggled, enabled)
	return enabled
}

// ToggleAudio flips the audio flag, applies it to live audio tracks and
// returns the new state.
func (m *Machine) ToggleAudio() bool {
	m.mu.Lock()
	m.audioEnabled = !m.audioEnabled
	enabled := m.audioEnabled
	stream := m.localStream
	m.mu.Unlock()

	if stream != nil {
		for _, t := range stream.AudioTracks() {
			t.setEnabled(enabled)
		}
	}
	m.Events.emit(EventAudioToggled, enabled)
	return enabled
}

// SwitchCamera swaps the video track to another video input device. Silent
// no-op when there is no active stream or fewer than two devices;
// acquisition failures are logged and swallowed.
func (m *Machine) SwitchCamera(ctx context.Context) {
	m.mu.Lock()
	stream := m.localStream
	m.mu.Unlock()
	if stream == nil {
		return
	}

	devices, err := m.devices.EnumerateDevices(ctx)
	if err != nil {
		m.log.Warn("could not switch camera", "err", err)
		return
	}

	var videoInputs []DeviceInfo
	for _, d := range devices {
		if d.Kind == DeviceVideoInput {
			videoInputs = append(videoInputs, d)
		}
	}
	if len(videoInputs) < 2 {
		return
	}

	videoTracks := stream.VideoTracks()
	if len(videoTracks) == 0 {
		return
	}
	current := videoTracks[0]

	var next *DeviceInfo
	for i := range videoInputs {
		if videoInputs[i].DeviceID != current.DeviceID {
			next = &videoInputs[i]
			break
		}
	}
	if next == nil {
		return
	}

	newStream, err := m.devices.GetUserMedia(ctx, Constraints{Video: true, VideoDeviceID: next.DeviceID})
	if err != nil {
		m.log.Warn("could not switch camera", "err", err)
		return
	}
	newTracks := newStream.VideoTracks()
	if len(newTracks) == 0 {
		return
	}

	current.Stop()
	stream.removeTrack(current)
	stream.addTrack(newTracks[0])

	m.Events.emit(EventCameraSwitched, next.Label)
}

// EndCall stops all local tracks, appends a history entry when a
// counterpart was set, and resets every field to its idle default.
func (m *Machine) EndCall(duration time.Duration) {
	m.mu.Lock()

	if m.localStream != nil {
		m.localStream.stopAll()
	}

	var payload EndedPayload
	if m.counterpartID != "" {
		entry := HistoryEntry{
			CounterpartID: m.counterpartID,
			Type:          m.callType,
			StartedAt:     m.startedAt,
			Duration:      duration,
		}
		m.history = append(m.history, entry)
		if len(m.history) > historyLimit {
			m.history = m.history[len(m.history)-historyLimit:]
		}
		payload = EndedPayload{CounterpartID: m.counterpartID, Duration: duration}
	}

	m.state = StateIdle
	m.isIncoming = false
	m.callType = ""
	m.counterpartID = ""
	m.roomToken = ""
	m.startedAt = time.Time{}
	m.videoEnabled = true
	m.audioEnabled = true
	m.localStream = nil

	m.mu.Unlock()

	m.Events.emit(EventEnded, payload)
}

// LocalStream exposes the stream for rendering. Callers must not mutate
// its tracks directly.
func (m *Machine) LocalStream() *Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.localStream
}

// Participant mirrors the local leg for the in-call roster.
type Participant struct {
	SessionID string
	Audio     bool
	Video     bool
}

// Participants lists the local participant. There is no remote leg in the
// simulated transport.
func (m *Machine) Participants() []Participant {
	m.mu.Lock()
	defer m.mu.Unlock()
	return []Participant{{SessionID: "local", Audio: m.audioEnabled, Video: m.videoEnabled}}
}

// Snapshot returns the current session for rendering.
func (m *Machine) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Session{
		IsActive:      m.state == StateConnecting || m.state == StateActive,
		IsIncoming:    m.isIncoming,
		State:         m.state,
		Type:          m.callType,
		CounterpartID: m.counterpartID,
		RoomToken:     m.roomToken,
		StartedAt:     m.startedAt,
		VideoEnabled:  m.videoEnabled,
		AudioEnabled:  m.audioEnabled,
	}
}

// History returns finished calls, oldest first, at most 50.
func (m *Machine) History() []HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]HistoryEntry(nil), m.history...)
}
