package call

import "sync"

// Event names emitted by the call machine.
type Event string

const (
	EventJoined         Event = "joined"
	EventVideoToggled   Event = "videoToggled"
	EventAudioToggled   Event = "audioToggled"
	EventCameraSwitched Event = "cameraSwitched"
	EventEnded          Event = "ended"
)

// Handler receives an event payload.
type Handler func(payload any)

// Subscription identifies a registration for Off.
type Subscription struct {
	event Event
	id    uint64
}

type handlerEntry struct {
	id uint64
	fn Handler
}

// Emitter is a minimal publish-subscribe fan-out. Handlers run
// synchronously in registration order; removal is by subscription token
// (functions are not comparable in Go).
type Emitter struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[Event][]handlerEntry
}

// On registers a handler and returns its subscription token.
func (em *Emitter) On(event Event, fn Handler) Subscription {
	em.mu.Lock()
	defer em.mu.Unlock()
	if em.handlers == nil {
		em.handlers = map[Event][]handlerEntry{}
	}
	em.nextID++
	em.handlers[event] = append(em.handlers[event], handlerEntry{id: em.nextID, fn: fn})
	return Subscription{event: event, id: em.nextID}
}

// Off removes the subscription. Unknown tokens no-op.
func (em *Emitter) Off(sub Subscription) {
	em.mu.Lock()
	defer em.mu.Unlock()
	entries := em.handlers[sub.event]
	for i, entry := range entries {
		if entry.id == sub.id {
			em.handlers[sub.event] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// emit invokes every handler registered for the event, in registration
// order, on the calling goroutine.
func (em *Emitter) emit(event Event, payload any) {
	em.mu.Lock()
	entries := append([]handlerEntry(nil), em.handlers[event]...)
	em.mu.Unlock()

	for _, entry := range entries {
		entry.fn(payload)
	}
}
