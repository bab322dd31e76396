package workouts

import (
	"context"
	"errors"
)

var ErrLogNotFound = errors.New("workout log not found")

// Filter narrows List to one user and, optionally, one category.
type Filter struct {
	UserID   string
	Category string
}

// Store is the log store. GetAll and List make no ordering guarantee.
type Store interface {
	GetAll(ctx context.Context, userID string) ([]WorkoutLog, error)
	List(ctx context.Context, filter Filter) ([]WorkoutLog, error)
	Get(ctx context.Context, id string) (*WorkoutLog, error)
	Upsert(ctx context.Context, id string, workoutLog WorkoutLog) error
	Delete(ctx context.Context, id string) error
	UserIDs(ctx context.Context) ([]string, error)
}

var (
	_ Store = (*PsqlRepo)(nil)
	_ Store = (*MemoryRepo)(nil)
)
