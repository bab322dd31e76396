package profile

import (
	"time"

	"github.com/2beens/gymprofile/internal/gymstats/workouts"
)

// DatedKey is one (key, date) event for the recency tracker.
type DatedKey struct {
	Key  string
	Date string
}

// MostRecent returns the latest date per key, compared as instants.
// Events with an empty key or a missing or unparsable date are skipped.
func MostRecent(events []DatedKey) map[string]string {
	t := newRecencyTracker(nil)
	for _, e := range events {
		t.observe(e.Key, e.Date)
	}
	return t.result()
}

type recencyTracker struct {
	dates    map[string]string
	instants map[string]time.Time
}

// newRecencyTracker starts from seed. Seeded dates that do not parse lose to any valid date.
func newRecencyTracker(seed map[string]string) *recencyTracker {
	t := &recencyTracker{
		dates:    make(map[string]string, len(seed)),
		instants: make(map[string]time.Time, len(seed)),
	}
	for key, date := range seed {
		t.dates[key] = date
		if instant, ok := workouts.ParseDate(date); ok {
			t.instants[key] = instant
		}
	}
	return t
}

// observe keeps date for key only if it is strictly later than the stored one.
func (t *recencyTracker) observe(key, date string) bool {
	if key == "" {
		return false
	}
	instant, ok := workouts.ParseDate(date)
	if !ok {
		return false
	}
	if current, ok := t.instants[key]; ok && !instant.After(current) {
		return false
	}
	t.dates[key] = date
	t.instants[key] = instant
	return true
}

func (t *recencyTracker) get(key string) (string, bool) {
	date, ok := t.dates[key]
	return date, ok
}

func (t *recencyTracker) result() map[string]string {
	return copyStrings(t.dates)
}
