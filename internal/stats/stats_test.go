package stats

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/internal/types/habit"
)

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestCompletedDates(t *testing.T) {
	days := []habit.LogDay{
		{LocalDate: day(2024, 3, 1), Status: habit.StatusCompleted},
		{LocalDate: day(2024, 3, 2), Status: habit.StatusSkipped},
		{LocalDate: day(2024, 3, 3), Status: habit.StatusCompleted},
	}
	assert.Equal(t, []civil.Date{day(2024, 3, 1), day(2024, 3, 3)}, CompletedDates(days))
}

func TestComputeDailyStreaks(t *testing.T) {
	today := day(2024, 3, 13)
	completed := []civil.Date{
		day(2023, 12, 30), day(2023, 12, 31), day(2024, 1, 1), day(2024, 1, 2),
		day(2024, 3, 1),
		day(2024, 3, 11), day(2024, 3, 12), day(2024, 3, 13),
	}

	s := Compute(completed, today, 1, 2)

	assert.True(t, s.TodayStatus)
	assert.Equal(t, 8, s.TotalDaysCompleted)
	assert.Equal(t, 3, s.DaysThisWeek)
	assert.Equal(t, 4, s.DaysThisMonth)
	assert.Equal(t, 6, s.DaysThisYear)
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 4, s.LongestStreak)
	require.NotNil(t, s.LastCompleted)
	assert.Equal(t, today, *s.LastCompleted)
	assert.Len(t, s.Weekly, 2)
}

func TestComputeStreakRespectsFrequency(t *testing.T) {
	completed := []civil.Date{day(2024, 3, 1), day(2024, 3, 4), day(2024, 3, 7)}

	weekly := Compute(completed, day(2024, 3, 9), 3, 1)
	assert.Equal(t, 3, weekly.CurrentStreak)
	assert.False(t, weekly.TodayStatus)

	broken := Compute(completed, day(2024, 3, 11), 3, 1)
	assert.Zero(t, broken.CurrentStreak)
	assert.Equal(t, 3, broken.LongestStreak)

	daily := Compute(completed, day(2024, 3, 7), 0, 1)
	assert.Equal(t, 1, daily.CurrentStreak)
	assert.Equal(t, 1, daily.LongestStreak)
}

func TestComputeIgnoresFutureDays(t *testing.T) {
	s := Compute([]civil.Date{day(2024, 3, 1), day(2024, 4, 1)}, day(2024, 3, 2), 1, 1)
	assert.Equal(t, 1, s.TotalDaysCompleted)
	assert.Equal(t, 1, s.CurrentStreak)
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil, day(2024, 3, 2), 1, 4)
	assert.Zero(t, s.TotalDaysCompleted)
	assert.Nil(t, s.LastCompleted)
	assert.Len(t, s.Weekly, 4)
}
