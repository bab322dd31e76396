package profile

import (
	"sort"

	"github.com/2beens/gymprofile/internal/gymstats/workouts"
)

// RecomputeProfile builds the full profile from every log of one user.
// The result depends only on the set of logs, not on their order.
func RecomputeProfile(logs []workouts.WorkoutLog) *UserProfile {
	byExercise := newRecencyTracker(nil)
	byCategory := newRecencyTracker(nil)
	oneRepMaxes := newOneRepMaxTracker(nil)

	for _, l := range scanOrder(logs) {
		if l.Exercise == "" {
			continue
		}
		if _, ok := l.Instant(); !ok {
			continue
		}
		byExercise.observe(l.Exercise, l.Date)
		byCategory.observe(l.Category, l.Date)
		for _, o := range Observations(l) {
			oneRepMaxes.observe(l.Exercise, o)
		}
	}

	return &UserProfile{
		LastWorkedByCategory: byCategory.result(),
		LastWorkedByExercise: byExercise.result(),
		OneRepMaxByExercise:  oneRepMaxes.result(),
	}
}

// scanOrder sorts logs by date, then id, so ties resolve the same way on every run.
// Logs without a parsable date go last; they are skipped anyway.
func scanOrder(logs []workouts.WorkoutLog) []workouts.WorkoutLog {
	ordered := make([]workouts.WorkoutLog, len(logs))
	copy(ordered, logs)
	sort.SliceStable(ordered, func(i, j int) bool {
		ti, okI := ordered[i].Instant()
		tj, okJ := ordered[j].Instant()
		if okI != okJ {
			return okI
		}
		if okI && !ti.Equal(tj) {
			return ti.Before(tj)
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

// FoldLog folds one new or edited log into the existing profile.
//
// Exercise recency and one-rep max only move forward. The category recency is
// taken from categoryLogs, all of the user's logs in the changed log's category,
// so an edit moving a date backwards cannot leave a stale value behind.
// The returned patch carries only the keys whose maps changed.
func FoldLog(existing *UserProfile, changed workouts.WorkoutLog, categoryLogs []workouts.WorkoutLog) (*UserProfile, Patch) {
	updated := existing.Clone()
	var patch Patch

	if changed.Exercise == "" {
		return updated, patch
	}
	if _, ok := changed.Instant(); !ok {
		return updated, patch
	}

	byExercise := newRecencyTracker(updated.LastWorkedByExercise)
	if byExercise.observe(changed.Exercise, changed.Date) {
		updated.LastWorkedByExercise = byExercise.result()
		patch.LastWorkedByExercise = updated.LastWorkedByExercise
	}

	oneRepMaxes := newOneRepMaxTracker(updated.OneRepMaxByExercise)
	improved := false
	for _, o := range Observations(changed) {
		if oneRepMaxes.observe(changed.Exercise, o) {
			improved = true
		}
	}
	if improved {
		updated.OneRepMaxByExercise = oneRepMaxes.result()
		patch.OneRepMaxByExercise = updated.OneRepMaxByExercise
	}

	if changed.Category != "" {
		if latest, ok := latestInCategory(changed, categoryLogs); ok {
			if current, found := updated.LastWorkedByCategory[changed.Category]; !found || current != latest {
				updated.LastWorkedByCategory[changed.Category] = latest
				patch.LastWorkedByCategory = updated.LastWorkedByCategory
			}
		}
	}

	return updated, patch
}

// latestInCategory finds the latest date among the changed log and the re-queried category logs.
// The stored copy of the changed log is replaced by the changed one.
func latestInCategory(changed workouts.WorkoutLog, categoryLogs []workouts.WorkoutLog) (string, bool) {
	candidates := make([]workouts.WorkoutLog, 0, len(categoryLogs)+1)
	for _, l := range categoryLogs {
		if l.ID != "" && l.ID == changed.ID {
			continue
		}
		if l.Category != changed.Category || l.UserID != changed.UserID || l.Exercise == "" {
			continue
		}
		candidates = append(candidates, l)
	}
	candidates = append(candidates, changed)

	t := newRecencyTracker(nil)
	for _, l := range scanOrder(candidates) {
		t.observe(changed.Category, l.Date)
	}
	return t.get(changed.Category)
}

// HeldBy reports whether l supplies one of the profile's values for its exercise:
// the exercise recency or the one-rep max. Folding an edit of such a log cannot
// lower that value, so the profile has to be recomputed.
func HeldBy(p *UserProfile, l workouts.WorkoutLog) bool {
	if p == nil || l.Exercise == "" {
		return false
	}
	if date, ok := p.LastWorkedByExercise[l.Exercise]; ok && date == l.Date {
		return true
	}
	best, ok := p.OneRepMaxByExercise[l.Exercise]
	if !ok {
		return false
	}
	for _, o := range Observations(l) {
		if o.Load == best.Value && o.Reps == best.Reps && o.Date == best.Date {
			return true
		}
	}
	return false
}
