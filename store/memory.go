package store

import (
	"context"
	"sync"
)

// MemoryStore keeps session items in process memory. Items disappear with
// the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]map[string]string{}}
}

func (m *MemoryStore) GetItem(_ context.Context, sessionID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.sessions[sessionID][key]
	return v, ok, nil
}

func (m *MemoryStore) SetItem(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.sessions[sessionID]
	if !ok {
		items = map[string]string{}
		m.sessions[sessionID] = items
	}
	items[key] = value
	return nil
}

func (m *MemoryStore) RemoveItem(_ context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions[sessionID], key)
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	return nil
}

func (m *MemoryStore) Close() error { return nil }
