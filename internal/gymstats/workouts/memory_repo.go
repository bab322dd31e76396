package workouts

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory log store for development and testing.
type MemoryRepo struct {
	mu   sync.Mutex
	logs map[string]WorkoutLog
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		logs: make(map[string]WorkoutLog),
	}
}

func (r *MemoryRepo) GetAll(_ context.Context, userID string) ([]WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logs := make([]WorkoutLog, 0)
	for _, l := range r.logs {
		if l.UserID == userID {
			logs = append(logs, copyLog(l))
		}
	}
	return logs, nil
}

func (r *MemoryRepo) List(_ context.Context, filter Filter) ([]WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	logs := make([]WorkoutLog, 0)
	for _, l := range r.logs {
		if l.UserID != filter.UserID {
			continue
		}
		if filter.Category != "" && l.Category != filter.Category {
			continue
		}
		logs = append(logs, copyLog(l))
	}
	return logs, nil
}

func (r *MemoryRepo) Get(_ context.Context, id string) (*WorkoutLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.logs[id]
	if !ok {
		return nil, ErrLogNotFound
	}
	l = copyLog(l)
	return &l, nil
}

func (r *MemoryRepo) Upsert(_ context.Context, id string, workoutLog WorkoutLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	workoutLog.ID = id
	r.logs[id] = copyLog(workoutLog)
	return nil
}

func (r *MemoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.logs[id]; !ok {
		return ErrLogNotFound
	}
	delete(r.logs, id)
	return nil
}

func (r *MemoryRepo) UserIDs(_ context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	seen := make(map[string]bool)
	userIDs := make([]string, 0)
	for _, l := range r.logs {
		if !seen[l.UserID] {
			seen[l.UserID] = true
			userIDs = append(userIDs, l.UserID)
		}
	}
	sort.Strings(userIDs)
	return userIDs, nil
}

func copyLog(l WorkoutLog) WorkoutLog {
	if l.Sets != nil {
		sets := make([]SetEntry, len(l.Sets))
		copy(sets, l.Sets)
		l.Sets = sets
	}
	return l
}
