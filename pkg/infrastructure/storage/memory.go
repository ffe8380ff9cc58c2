package storage

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu    sync.RWMutex
	slots map[string][]byte
}

func NewMemoryStore() Store {
	return &memoryStore{slots: make(map[string][]byte)}
}

func (s *memoryStore) Get(_ context.Context, slot string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.slots[slot]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (s *memoryStore) Set(_ context.Context, slot string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.slots[slot] = append([]byte(nil), value...)
	return nil
}

func (s *memoryStore) Remove(_ context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.slots, slot)
	return nil
}

func (s *memoryStore) Close() error {
	return nil
}
