package profile

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

// CachedStore is a read-through freecache in front of another profile store.
// Every merge write drops the cached entry and bumps the user's generation;
// a read only fills the cache if no write started since it hit the store.
type CachedStore struct {
	store Store
	cache *freecache.Cache
	ttl   int

	mu   sync.Mutex
	gens map[string]uint64
}

func NewCachedStore(store Store, cache *freecache.Cache, ttl time.Duration) *CachedStore {
	return &CachedStore{
		store: store,
		cache: cache,
		ttl:   int(ttl.Seconds()),
		gens:  make(map[string]uint64),
	}
}

func (s *CachedStore) generation(userID string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gens[userID]
}

func (s *CachedStore) invalidate(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gens[userID]++
	s.cache.Del([]byte(userID))
}

func (s *CachedStore) Get(ctx context.Context, userID string) (*UserProfile, error) {
	key := []byte(userID)
	if cached, err := s.cache.Get(key); err == nil {
		var p UserProfile
		if err := json.Unmarshal(cached, &p); err == nil {
			return p.Clone(), nil
		}
		s.cache.Del(key)
	} else if !errors.Is(err, freecache.ErrNotFound) {
		log.Warnf("profile cache get [%s]: %s", userID, err)
	}

	gen := s.generation(userID)
	p, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return p, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens[userID] != gen {
		return p, nil
	}
	if err := s.cache.Set(key, raw, s.ttl); err != nil {
		log.Warnf("profile cache set [%s]: %s", userID, err)
	}
	return p, nil
}

func (s *CachedStore) UpsertMerge(ctx context.Context, userID string, patch Patch) error {
	s.invalidate(userID)
	defer s.invalidate(userID)
	return s.store.UpsertMerge(ctx, userID, patch)
}
