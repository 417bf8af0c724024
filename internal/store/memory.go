package store

import (
	"context"
	"sync"
)

// Memory keeps the snapshot in process memory. Default for tests and for
// running the engine without durability.
type Memory struct {
	mu   sync.RWMutex
	blob []byte
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Load(_ context.Context) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.blob == nil {
		return nil, ErrNotFound
	}
	out := make([]byte, len(m.blob))
	copy(out, m.blob)
	return out, nil
}

func (m *Memory) Save(_ context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = make([]byte, len(blob))
	copy(m.blob, blob)
	return nil
}
