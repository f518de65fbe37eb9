package workout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompletedEntries(t *testing.T) {
	entries := []ExerciseEntry{
		{Name: " Bench ", Sets: []LoggedSet{{Reps: 8, Weight: 60}, {Reps: 0, Weight: 60}, {Reps: 8, Weight: 0}}},
		{Name: "Squat", Sets: []LoggedSet{{Reps: 0, Weight: 0}}},
		{Name: "Row", Sets: []LoggedSet{{Reps: 10, Weight: 40}, {Reps: 10, Weight: 42.5}}},
	}

	got := CompletedEntries(entries)

	assert.Equal(t, []ExerciseEntry{
		{Name: "Bench", Sets: []LoggedSet{{Reps: 8, Weight: 60}}},
		{Name: "Row", Sets: []LoggedSet{{Reps: 10, Weight: 40}, {Reps: 10, Weight: 42.5}}},
	}, got)
	assert.Equal(t, 3, CountSets(got))
}

func TestCompletedEntriesNothingPerformed(t *testing.T) {
	got := CompletedEntries([]ExerciseEntry{{Name: "Squat", Sets: []LoggedSet{{Reps: 5}}}})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}
