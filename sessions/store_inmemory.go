package sessions

import (
	"sync"
)

// InMemoryStore is a thread-safe in-memory implementation of the Store interface
type InMemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates a new, empty session store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		values: make(map[string]string),
	}
}

// Get retrieves a session value by key
func (s *InMemoryStore) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.values[key]
	return value, exists, nil
}

// Set stores or updates a session value
func (s *InMemoryStore) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

// Delete removes a session value
func (s *InMemoryStore) Delete(key string) error {
	if key == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}
