package profile

import (
	"context"
	"sync"
)

type MemoryStore struct {
	mu       sync.Mutex
	profiles map[string]*UserProfile
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]*UserProfile),
	}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return p.Clone(), nil
}

func (s *MemoryStore) UpsertMerge(_ context.Context, userID string, patch Patch) error {
	if patch.IsEmpty() {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[userID]
	if !ok {
		p = NewUserProfile()
		s.profiles[userID] = p
	}
	p.Apply(patch)
	return nil
}
