package calendar

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habitTrackerAPI/internal/types/habit"
)

func TestMonthRange(t *testing.T) {
	first, last := MonthRange(2024, time.February)
	assert.Equal(t, civil.Date{Year: 2024, Month: 2, Day: 1}, first)
	assert.Equal(t, civil.Date{Year: 2024, Month: 2, Day: 29}, last)

	_, last = MonthRange(2023, time.December)
	assert.Equal(t, civil.Date{Year: 2023, Month: 12, Day: 31}, last)
}

func TestBuild(t *testing.T) {
	days := []habit.LogDay{
		{LocalDate: civil.Date{Year: 2024, Month: 2, Day: 3}, Status: habit.StatusCompleted},
		{LocalDate: civil.Date{Year: 2024, Month: 2, Day: 5}, Status: habit.StatusSkipped},
	}
	today := civil.Date{Year: 2024, Month: 2, Day: 5}

	cal := Build(7, 2024, time.February, days, today)
	require.Len(t, cal.Days, 29)
	assert.Equal(t, int64(7), cal.TaskID)
	assert.Equal(t, 2, cal.Month)

	assert.Nil(t, cal.Days[0].Status)
	require.NotNil(t, cal.Days[2].Status)
	assert.Equal(t, habit.StatusCompleted, *cal.Days[2].Status)
	assert.Equal(t, habit.StatusSkipped, *cal.Days[4].Status)
	assert.True(t, cal.Days[4].IsToday)
	assert.False(t, cal.Days[3].IsToday)
}
