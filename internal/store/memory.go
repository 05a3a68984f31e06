package store

import (
	"context"
	"sync"
)

// Compile-time check: *MemoryStore must satisfy DocumentStore.
var _ DocumentStore = (*MemoryStore)(nil)

// MemoryStore keeps documents in process memory. Nothing survives a restart.
type MemoryStore struct {
	writer *ProcessLock
	mu     sync.RWMutex
	docs   map[EntitySet][]byte
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		writer: NewProcessLock(),
		docs:   make(map[EntitySet][]byte),
	}
}

func (m *MemoryStore) Load(_ context.Context, set EntitySet) ([]byte, error) {
	if err := set.Validate(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, ErrStoreClosed
	}

	doc, ok := m.docs[set]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), doc...), nil
}

func (m *MemoryStore) Save(_ context.Context, docs map[EntitySet][]byte) error {
	if err := ValidateDocs(docs); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrStoreClosed
	}

	for set, doc := range docs {
		m.docs[set] = append([]byte(nil), doc...)
	}
	return nil
}

func (m *MemoryStore) Lock(ctx context.Context) (UnlockFunc, error) {
	if err := m.writer.Lock(ctx); err != nil {
		return nil, err
	}
	var once sync.Once
	return func() { once.Do(m.writer.Unlock) }, nil
}

func (m *MemoryStore) Ping(_ context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrStoreClosed
	}
	return nil
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}
