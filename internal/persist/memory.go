package persist

import (
	"context"
	"strconv"
	"sync"
)

// MemoryStore keeps values in process memory. Values are lost on exit.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	s.values[key] = value
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Raise(_ context.Context, key string, value int) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.values[key]
	if cur, _ := parseScore(raw, ok); cur >= value {
		return cur, false, nil
	}
	s.values[key] = strconv.Itoa(value)
	return value, true, nil
}
