package settings

import (
	"context"
	"sync"

	"noskip/internal/core"
)

// MemoryStore is an in-process Store for tests and local runs.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string][]byte)}
}

func (m *MemoryStore) GetPreference(_ context.Context, userID, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[userID+"\x00"+key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) PutPreference(_ context.Context, userID, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[userID+"\x00"+key] = append([]byte(nil), blob...)
	return nil
}
