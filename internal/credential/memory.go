package credential

import (
	"context"
	"sync"
)

// MemoryStore keeps the credential in process memory only.
type MemoryStore struct {
	mu    sync.RWMutex
	value string
}

// NewMemoryStore returns an empty store, optionally seeded with a credential.
func NewMemoryStore(initial ...string) *MemoryStore {
	s := &MemoryStore{}
	if len(initial) > 0 {
		s.value = initial[0]
	}
	return s
}

func (s *MemoryStore) Get(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value, nil
}

func (s *MemoryStore) Set(_ context.Context, credential string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = credential
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = ""
	return nil
}

func (s *MemoryStore) ClearIf(_ context.Context, expected string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.value == "" || s.value != expected {
		return false, nil
	}
	s.value = ""
	return true, nil
}
