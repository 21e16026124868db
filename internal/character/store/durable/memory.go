package durable

import (
	"context"
	"sync"

	"grimoire/pkg/platform/sentinel"
)

// InMemory keeps values in a map. Values are copied on the way in and out.
type InMemory struct {
	mu    sync.RWMutex
	items map[string][]byte
}

// NewInMemory creates an empty in-memory store.
func NewInMemory() *InMemory {
	return &InMemory{items: make(map[string][]byte)}
}

func (s *InMemory) GetItem(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *InMemory) SetItem(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[key] = append([]byte(nil), value...)
	return nil
}

// RemoveItem deletes a key; removing a missing key is not an error.
func (s *InMemory) RemoveItem(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	return nil
}
