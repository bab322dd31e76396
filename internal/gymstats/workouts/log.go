package workouts

import (
	"strings"
	"time"
)

// CurrentSchemaVersion is stamped on every log written by this service.
// Logs carrying a lower version are picked up by the migrator.
const CurrentSchemaVersion = 2

// DateLayout is the layout used when the service itself stamps a log date.
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// SetEntry is one performed set within a log. Absent fields mean "not recorded".
// Pounds is the legacy name of Weight, kept readable for old records.
type SetEntry struct {
	Weight   *float64 `json:"weight,omitempty"`
	Pounds   *float64 `json:"pounds,omitempty"`
	Reps     *int     `json:"reps,omitempty"`
	Distance *float64 `json:"distance,omitempty"`
	Duration *float64 `json:"duration,omitempty"`
}

// Loads returns the candidate loads of the set: the weight, and the legacy
// pounds value if it is present and differs from the weight. Non-positive
// values are not loads.
func (s SetEntry) Loads() []float64 {
	var loads []float64
	if s.Weight != nil && *s.Weight > 0 {
		loads = append(loads, *s.Weight)
	}
	if s.Pounds != nil && *s.Pounds > 0 {
		if s.Weight == nil || *s.Weight != *s.Pounds {
			loads = append(loads, *s.Pounds)
		}
	}
	return loads
}

// RepCount returns the recorded reps, or 0 when not recorded.
func (s SetEntry) RepCount() int {
	if s.Reps == nil {
		return 0
	}
	return *s.Reps
}

// WorkoutLog is one recorded training event.
type WorkoutLog struct {
	ID       string     `json:"id"`
	UserID   string     `json:"userId"`
	Exercise string     `json:"exercise"`
	Category string     `json:"category,omitempty"`
	Date     string     `json:"date"`
	Sets     []SetEntry `json:"sets"`

	// LegacyID is the internal id field old clients wrote into the document body.
	// Its mere presence marks the record for migration.
	LegacyID      *string `json:"legacyId,omitempty"`
	SchemaVersion int     `json:"schemaVersion"`
}

// Instant returns the parsed log date. ok is false when the date is missing or unparsable.
func (l WorkoutLog) Instant() (time.Time, bool) {
	return ParseDate(l.Date)
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses the ISO-8601 flavours found across current and legacy records.
func ParseDate(date string) (time.Time, bool) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate formats t the way the service stamps new log dates.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
