package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/internal/types/habit"
)

func (f *fixture) logOn(t *testing.T, taskID int64, d int, month time.Month, status habit.LogStatus) {
	t.Helper()

	_, err := f.logs.CreateLog(context.Background(), f.userID, "", &habit.CreateLogRequest{
		TaskID:     taskID,
		Status:     &status,
		OccurredAt: ptr(time.Date(2024, month, d, 9, 0, 0, 0, time.UTC)),
	})
	require.NoError(t, err)
}

func TestStatsCountsCompletedDays(t *testing.T) {
	f := newFixture(t)
	h := f.createHabit(t, "1", nil)

	f.logOn(t, h.ID, 28, time.February, habit.StatusCompleted)
	f.logOn(t, h.ID, 5, time.March, habit.StatusSkipped)
	for _, d := range []int{8, 9, 10} {
		f.logOn(t, h.ID, d, time.March, habit.StatusCompleted)
	}

	st, err := f.logs.Stats(context.Background(), f.userID, h.ID)
	require.NoError(t, err)

	assert.True(t, st.TodayStatus)
	assert.Equal(t, 4, st.TotalDaysCompleted)
	assert.Equal(t, 3, st.DaysThisWeek)
	assert.Equal(t, 3, st.DaysThisMonth)
	assert.Equal(t, 4, st.DaysThisYear)
	assert.Equal(t, 3, st.CurrentStreak)
	assert.Equal(t, 3, st.LongestStreak)
	require.Len(t, st.Weekly, 8)
	assert.Equal(t, day(2024, 3, 4), st.Weekly[7].WeekStart)
	assert.Equal(t, 3, st.Weekly[7].DaysCompleted)
	assert.Equal(t, 1, st.Weekly[6].DaysCompleted)
}

func TestStatsUsesFrequencyForStreaks(t *testing.T) {
	f := newFixture(t)
	h := f.createHabit(t, "3", nil)

	for _, d := range []int{2, 5, 8} {
		f.logOn(t, h.ID, d, time.March, habit.StatusCompleted)
	}

	st, err := f.logs.Stats(context.Background(), f.userID, h.ID)
	require.NoError(t, err)
	assert.False(t, st.TodayStatus)
	assert.Equal(t, 3, st.CurrentStreak)
}

func TestCalendarMonth(t *testing.T) {
	f := newFixture(t)
	h := f.createHabit(t, "1", nil)

	f.logOn(t, h.ID, 5, time.March, habit.StatusSkipped)
	f.logOn(t, h.ID, 10, time.March, habit.StatusCompleted)
	f.logOn(t, h.ID, 1, time.April, habit.StatusCompleted)

	cal, err := f.logs.Calendar(context.Background(), f.userID, h.ID, 0, 0)
	require.NoError(t, err)

	assert.Equal(t, 2024, cal.Year)
	assert.Equal(t, 3, cal.Month)
	require.Len(t, cal.Days, 31)
	assert.Nil(t, cal.Days[0].Status)
	assert.Equal(t, habit.StatusSkipped, *cal.Days[4].Status)
	assert.Equal(t, habit.StatusCompleted, *cal.Days[9].Status)
	assert.True(t, cal.Days[9].IsToday)

	feb, err := f.logs.Calendar(context.Background(), f.userID, h.ID, 2024, 2)
	require.NoError(t, err)
	assert.Len(t, feb.Days, 29)
	for _, d := range feb.Days {
		assert.Nil(t, d.Status)
		assert.False(t, d.IsToday)
	}
}

func TestCalendarErrors(t *testing.T) {
	f := newFixture(t)
	h := f.createHabit(t, "1", nil)
	ctx := context.Background()

	_, err := f.logs.Calendar(ctx, f.userID, h.ID, 2024, 13)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	_, err = f.logs.Calendar(ctx, f.userID, 999, 2024, 3)
	assert.ErrorIs(t, err, ErrHabitNotFound)

	_, err = f.logs.Stats(ctx, f.userID+100, h.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}
