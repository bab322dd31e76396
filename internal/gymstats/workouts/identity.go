package workouts

import (
	"strings"
	"time"
)

const (
	// UnknownExercise stands in for a missing exercise name in canonical ids.
	UnknownExercise = "UnknownExercise"
	// AnonymousUser stands in for a missing user id in canonical ids.
	AnonymousUser = "anonymous"
)

// Sanitize strips every character that is not an ASCII letter or digit.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// CanonicalID builds the content-derived identifier of a log:
//
//	date + "_" + sanitize(exercise) + "_" + userID
//
// now is used when date is empty.
func CanonicalID(date, exercise, userID string, now time.Time) string {
	if strings.TrimSpace(date) == "" {
		date = FormatDate(now)
	}
	if exercise == "" {
		exercise = UnknownExercise
	}
	if userID == "" {
		userID = AnonymousUser
	}
	return date + "_" + Sanitize(exercise) + "_" + userID
}

// CanonicalID returns the canonical identifier recomputed from the log's own content.
func (l WorkoutLog) CanonicalID(now time.Time) string {
	return CanonicalID(l.Date, l.Exercise, l.UserID, now)
}
