package store

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
)

// MemoryMap keeps JSON-encoded values in process memory. It backs tests and
// servers started without a durable backend.
type MemoryMap[V any] struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryMap[V any]() *MemoryMap[V] {
	return &MemoryMap[V]{items: make(map[string][]byte)}
}

func (m *MemoryMap[V]) Get(_ context.Context, key string) (V, error) {
	var v V
	m.mu.RLock()
	b, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return v, ErrNotFound
	}
	err := json.Unmarshal(b, &v)
	return v, err
}

func (m *MemoryMap[V]) Insert(_ context.Context, key string, v V) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = b
	return nil
}

func (m *MemoryMap[V]) Values(_ context.Context) ([]V, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]V, 0, len(keys))
	for _, k := range keys {
		var v V
		if err := json.Unmarshal(m.items[k], &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Len reports the number of stored keys.
func (m *MemoryMap[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
