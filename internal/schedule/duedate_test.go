package schedule

import (
	"strconv"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/internal/types/habit"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestComputeNextDueDate(t *testing.T) {
	tests := []struct {
		name       string
		start      civil.Date
		frequency  habit.Frequency
		completion civil.Date
		wantNext   civil.Date
	}{
		{"same day weekly", date(2024, 1, 1), "7", date(2024, 1, 1), date(2024, 1, 8)},
		{"month boundary", date(2024, 1, 1), "3", date(2024, 1, 30), date(2024, 2, 2)},
		{"leap day", date(2024, 1, 1), "1", date(2024, 2, 28), date(2024, 2, 29)},
		{"year boundary", date(2023, 12, 1), "2", date(2023, 12, 31), date(2024, 1, 2)},
		{"spring forward week", date(2024, 3, 1), "1", date(2024, 3, 9), date(2024, 3, 10)},
		{"fall back week", date(2024, 10, 1), "7", date(2024, 10, 30), date(2024, 11, 6)},
		{"padded frequency", date(2024, 1, 1), " 2 ", date(2024, 1, 1), date(2024, 1, 3)},
		{"future completion trusted", date(2024, 1, 1), "1", date(2030, 6, 30), date(2030, 7, 1)},
		{"backdated before start", date(2024, 5, 1), "7", date(2024, 4, 1), date(2024, 4, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeNextDueDate(tt.start, tt.frequency, tt.completion)
			require.NoError(t, err)
			assert.Equal(t, tt.completion, got.LastExecutionDate)
			assert.Equal(t, tt.wantNext, got.NextExecutionDate)
		})
	}
}

func TestComputeNextDueDateSameDayProperty(t *testing.T) {
	start := date(2023, 1, 1)
	for d := start; d.Before(date(2025, 1, 1)); d = d.AddDays(13) {
		for _, f := range []int{1, 2, 7, 30, 365} {
			got, err := ComputeNextDueDate(d, habit.Frequency(strconv.Itoa(f)), d)
			require.NoError(t, err)
			assert.Equal(t, d.AddDays(f), got.NextExecutionDate)
			assert.Equal(t, f, got.NextExecutionDate.DaysSince(d))
		}
	}
}

func TestComputeNextDueDateNoChange(t *testing.T) {
	for _, f := range []habit.Frequency{"0", "-3", "abc", "", "1.5", "7 days"} {
		t.Run(string(f), func(t *testing.T) {
			_, err := ComputeNextDueDate(date(2024, 1, 1), f, date(2024, 1, 1))
			assert.ErrorIs(t, err, ErrInvalidFrequency)
		})
	}
}

func TestLocalDate(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		tz   string
		want civil.Date
	}{
		{"kolkata ahead of utc", time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC), "Asia/Kolkata", date(2024, 1, 2)},
		{"new york behind utc", time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC), "America/New_York", date(2024, 1, 1)},
		{"utc", time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC), "UTC", date(2024, 1, 2)},
		// 23:30 local on the evening before clocks spring forward.
		{"dst eve", time.Date(2024, 3, 10, 4, 30, 0, 0, time.UTC), "America/New_York", date(2024, 3, 9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LocalDate(tt.at, tt.tz)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalDateInvalidZone(t *testing.T) {
	for _, tz := range []string{"", "  ", "Mars/Olympus_Mons"} {
		_, err := LocalDate(time.Now(), tz)
		assert.ErrorIs(t, err, ErrInvalidTimezone, tz)
	}
}

// A log written just before midnight on the day clocks spring forward must be
// due again exactly one calendar day later, not shifted by the lost hour.
func TestNoDriftAcrossDaylightSaving(t *testing.T) {
	loc, err := LoadLocation("America/New_York")
	require.NoError(t, err)

	occurred := time.Date(2024, 3, 9, 23, 30, 0, 0, loc)
	completion, err := LocalDate(occurred, "America/New_York")
	require.NoError(t, err)

	got, err := ComputeNextDueDate(date(2024, 3, 1), "1", completion)
	require.NoError(t, err)
	assert.Equal(t, date(2024, 3, 10), got.NextExecutionDate)

	// 24 hours later on the wall clock is already the 11th.
	naive := civil.DateOf(occurred.Add(24 * time.Hour).In(loc))
	assert.Equal(t, date(2024, 3, 11), naive)
}
