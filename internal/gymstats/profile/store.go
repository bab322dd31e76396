package profile

import (
	"context"
	"errors"
)

var ErrProfileNotFound = errors.New("profile not found")

// Store holds one profile per user.
// UpsertMerge replaces the keys specified in the patch and leaves the others untouched.
type Store interface {
	Get(ctx context.Context, userID string) (*UserProfile, error)
	UpsertMerge(ctx context.Context, userID string, patch Patch) error
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
	_ Store = (*CachedStore)(nil)
)
