package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMostRecent(t *testing.T) {
	got := MostRecent([]DatedKey{
		{Key: "Bench", Date: "2025-01-05"},
		{Key: "Bench", Date: "2025-01-05T10:00:00+02:00"},
		{Key: "Bench", Date: "2025-01-04T23:59:59.999Z"},
		{Key: "Squat", Date: "2024-12-31T23:00:00.000Z"},
		{Key: "Squat", Date: ""},
		{Key: "Squat", Date: "not a date"},
		{Key: "", Date: "2030-01-01"},
	})

	assert.Equal(t, map[string]string{
		"Bench": "2025-01-05T10:00:00+02:00",
		"Squat": "2024-12-31T23:00:00.000Z",
	}, got)
}

func TestMostRecent_InstantsNotStrings(t *testing.T) {
	// "2025-01-05T01:00:00+03:00" sorts after "2025-01-04T23:00:00Z" as a string but is earlier
	got := MostRecent([]DatedKey{
		{Key: "Run", Date: "2025-01-04T23:00:00Z"},
		{Key: "Run", Date: "2025-01-05T01:00:00+03:00"},
	})
	assert.Equal(t, "2025-01-04T23:00:00Z", got["Run"])
}

func TestMostRecent_EqualInstantsKeepFirst(t *testing.T) {
	got := MostRecent([]DatedKey{
		{Key: "Core", Date: "2025-01-05"},
		{Key: "Core", Date: "2025-01-05T00:00:00.000Z"},
	})
	assert.Equal(t, "2025-01-05", got["Core"])
}

func TestRecencyTracker_Seeded(t *testing.T) {
	tracker := newRecencyTracker(map[string]string{
		"Bench":  "2025-01-05",
		"Broken": "??",
	})

	assert.False(t, tracker.observe("Bench", "2025-01-04"))
	assert.False(t, tracker.observe("Bench", "2025-01-05T00:00:00Z"))
	assert.False(t, tracker.observe("Bench", ""))
	assert.True(t, tracker.observe("Bench", "2025-01-06"))

	// an unparsable stored date loses to any valid one
	assert.True(t, tracker.observe("Broken", "2020-01-01"))
	assert.True(t, tracker.observe("New", "2020-01-01"))

	assert.Equal(t, map[string]string{
		"Bench":  "2025-01-06",
		"Broken": "2020-01-01",
		"New":    "2020-01-01",
	}, tracker.result())
}
