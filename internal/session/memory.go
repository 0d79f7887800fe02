package session

import (
	"context"
	"sync"

	appErrors "github.com/zenops/zen-ops-console/pkg/errors"
)

// MemoryKV is a process-local KV, used when no Redis is configured and in tests.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryKV returns an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get returns a copy of the stored value or ErrCacheMiss.
func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, appErrors.ErrCacheMiss
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value.
func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Delete removes key.
func (m *MemoryKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Len reports how many keys are stored.
func (m *MemoryKV) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// Namespaces hands out one KV per browser session id.
type Namespaces interface {
	KV(sid string) KV
	Purge(ctx context.Context, sid string) error
}

// MemoryNamespaces keeps every browser session in process memory.
type MemoryNamespaces struct {
	mu     sync.Mutex
	spaces map[string]*MemoryKV
}

// NewMemoryNamespaces returns an empty set of namespaces.
func NewMemoryNamespaces() *MemoryNamespaces {
	return &MemoryNamespaces{spaces: make(map[string]*MemoryKV)}
}

// KV returns the namespace of sid, creating it on first use.
func (m *MemoryNamespaces) KV(sid string) KV {
	m.mu.Lock()
	defer m.mu.Unlock()
	kv, ok := m.spaces[sid]
	if !ok {
		kv = NewMemoryKV()
		m.spaces[sid] = kv
	}
	return kv
}

// Purge forgets sid.
func (m *MemoryNamespaces) Purge(_ context.Context, sid string) error {
	m.mu.Lock()
	delete(m.spaces, sid)
	m.mu.Unlock()
	return nil
}

// Len reports how many namespaces exist.
func (m *MemoryNamespaces) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.spaces)
}
