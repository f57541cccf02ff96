package kvstore

import (
	"context"
	"errors"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and throwaway sessions.
// FailWrites makes every Put/Delete fail; FailPutKey makes only Puts of
// that key fail, for exercising partial-write failure paths.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[string]string
	FailWrites bool
	FailPutKey string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: map[string]string{}}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Put(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites || key == m.FailPutKey {
		return errors.New("write failed")
	}
	m.entries[key] = value
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		return errors.New("write failed")
	}
	delete(m.entries, key)
	return nil
}
