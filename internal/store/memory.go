package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store. The zero value is not usable; call
// NewMemory.
type Memory struct {
	mu   sync.RWMutex
	data map[Namespace]map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[Namespace]map[string][]byte)}
}

// Get returns a copy of the stored value, or ErrNotFound.
func (m *Memory) Get(_ context.Context, ns Namespace, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bucket, ok := m.data[ns]
	if !ok {
		return nil, ErrNotFound
	}
	v, ok := bucket[key]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return cp, nil
}

// Put stores a copy of the value under (ns, key).
func (m *Memory) Put(_ context.Context, ns Namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.data[ns]
	if !ok {
		bucket = make(map[string][]byte)
		m.data[ns] = bucket
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	bucket[key] = cp
	return nil
}

// Delete removes (ns, key). Deleting an absent key is not an error.
func (m *Memory) Delete(_ context.Context, ns Namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if bucket, ok := m.data[ns]; ok {
		delete(bucket, key)
	}
	return nil
}
