package profile

import (
	"github.com/2beens/gymprofile/internal/gymstats/workouts"
)

// Persisted profile keys. Each one is replaced whole by a merge write.
const (
	KeyLastWorkedByCategory = "lastWorkedByCategory"
	KeyLastWorkedByExercise = "lastWorkedByExercise"
	KeyOneRepMaxByExercise  = "oneRepMaxByExercise"
)

// OneRepMax is the literal set that produced the best estimated one-rep max.
type OneRepMax struct {
	Value float64 `json:"value"`
	Reps  int     `json:"reps"`
	Date  string  `json:"date"`
}

// Estimated returns the estimated one-rep max of the stored set.
func (m OneRepMax) Estimated() float64 {
	return Estimate(m.Value, m.Reps)
}

// UserProfile is the derived summary of one user's logs. It can always be
// rebuilt from the logs.
type UserProfile struct {
	LastWorkedByCategory map[string]string    `json:"lastWorkedByCategory"`
	LastWorkedByExercise map[string]string    `json:"lastWorkedByExercise"`
	OneRepMaxByExercise  map[string]OneRepMax `json:"oneRepMaxByExercise"`
}

func NewUserProfile() *UserProfile {
	return &UserProfile{
		LastWorkedByCategory: map[string]string{},
		LastWorkedByExercise: map[string]string{},
		OneRepMaxByExercise:  map[string]OneRepMax{},
	}
}

func (p *UserProfile) Clone() *UserProfile {
	c := NewUserProfile()
	if p == nil {
		return c
	}
	for k, v := range p.LastWorkedByCategory {
		c.LastWorkedByCategory[k] = v
	}
	for k, v := range p.LastWorkedByExercise {
		c.LastWorkedByExercise[k] = v
	}
	for k, v := range p.OneRepMaxByExercise {
		c.OneRepMaxByExercise[k] = v
	}
	return c
}

// LastWorked returns the recency of the exercise, ok is false for "never".
func (p *UserProfile) LastWorked(exercise string) (string, bool) {
	date, ok := p.LastWorkedByExercise[exercise]
	return date, ok
}

// Apply merges the patch into the profile: specified keys replace the stored map whole.
func (p *UserProfile) Apply(patch Patch) {
	if patch.LastWorkedByCategory != nil {
		p.LastWorkedByCategory = copyStrings(patch.LastWorkedByCategory)
	}
	if patch.LastWorkedByExercise != nil {
		p.LastWorkedByExercise = copyStrings(patch.LastWorkedByExercise)
	}
	if patch.OneRepMaxByExercise != nil {
		m := make(map[string]OneRepMax, len(patch.OneRepMaxByExercise))
		for k, v := range patch.OneRepMaxByExercise {
			m[k] = v
		}
		p.OneRepMaxByExercise = m
	}
}

// Patch is a partial profile for merge writes. A nil map means "not specified".
type Patch struct {
	LastWorkedByCategory map[string]string
	LastWorkedByExercise map[string]string
	OneRepMaxByExercise  map[string]OneRepMax
}

// FullPatch specifies every key of p.
func FullPatch(p *UserProfile) Patch {
	p = p.Clone()
	return Patch{
		LastWorkedByCategory: p.LastWorkedByCategory,
		LastWorkedByExercise: p.LastWorkedByExercise,
		OneRepMaxByExercise:  p.OneRepMaxByExercise,
	}
}

func (p Patch) IsEmpty() bool {
	return p.LastWorkedByCategory == nil && p.LastWorkedByExercise == nil && p.OneRepMaxByExercise == nil
}

// Keys lists the specified keys, in persisted order.
func (p Patch) Keys() []string {
	var keys []string
	if p.LastWorkedByCategory != nil {
		keys = append(keys, KeyLastWorkedByCategory)
	}
	if p.LastWorkedByExercise != nil {
		keys = append(keys, KeyLastWorkedByExercise)
	}
	if p.OneRepMaxByExercise != nil {
		keys = append(keys, KeyOneRepMaxByExercise)
	}
	return keys
}

func copyStrings(m map[string]string) map[string]string {
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Observations lists every (load, reps, date) candidate of the log. Logs without
// an exercise or a parsable date yield none.
func Observations(l workouts.WorkoutLog) []Observation {
	if l.Exercise == "" {
		return nil
	}
	if _, ok := l.Instant(); !ok {
		return nil
	}
	var observations []Observation
	for _, s := range l.Sets {
		reps := s.RepCount()
		if reps <= 0 {
			continue
		}
		for _, load := range s.Loads() {
			observations = append(observations, Observation{Load: load, Reps: reps, Date: l.Date})
		}
	}
	return observations
}
