package storage

import "sync"

// MemoryStore is an in-memory Store used in tests and ephemeral runs.
// FailWrites and FailReads let tests exercise the error paths of callers.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string

	FailWrites error
	FailReads  error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	if s.FailReads != nil {
		return "", false, s.FailReads
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *MemoryStore) Set(key, value string) error {
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	if s.FailWrites != nil {
		return s.FailWrites
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
