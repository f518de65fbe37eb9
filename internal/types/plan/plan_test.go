package plan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    Weekday
		wantErr bool
	}{
		{"mon", Monday, false},
		{"Sun", Sunday, false},
		{" THU ", Thursday, false},
		{"monday", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2024-01-01 was a Monday.
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, want := range Weekdays {
		assert.Equal(t, want, WeekdayOf(base.AddDate(0, 0, i)))
	}
}

func TestWeekdayNames(t *testing.T) {
	assert.Equal(t, "mon", Monday.Key())
	assert.Equal(t, "Sat", Saturday.Short())
	assert.Equal(t, "", Weekday(0).Short())
	assert.False(t, Weekday(8).Valid())
}

func TestWorkoutPlanValidate(t *testing.T) {
	p := WorkoutPlan{
		WorkoutDay: "Push",
		Exercises:  []Exercise{{Name: "Bench", Sets: []Set{{Reps: 8, Weight: 60}}}},
	}
	assert.Empty(t, p.Validate())

	bad := WorkoutPlan{Exercises: []Exercise{{Name: "", Sets: []Set{{Reps: -1}}}}}
	assert.Len(t, bad.Validate(), 3)
}
