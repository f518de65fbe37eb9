package weekly_stats

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

func TestWeekStart(t *testing.T) {
	assert.Equal(t, day(2024, 3, 4), WeekStart(day(2024, 3, 10)))
	assert.Equal(t, day(2024, 3, 4), WeekStart(day(2024, 3, 4)))
	assert.Equal(t, day(2023, 12, 25), WeekStart(day(2023, 12, 31)))
	assert.Equal(t, day(2024, 1, 1), WeekStart(day(2024, 1, 3)))
}

func TestSummarize(t *testing.T) {
	today := day(2024, 3, 13)
	completed := []civil.Date{
		day(2024, 2, 1),
		day(2024, 2, 26), day(2024, 2, 29),
		day(2024, 3, 4), day(2024, 3, 5), day(2024, 3, 10),
		day(2024, 3, 13),
		day(2024, 3, 14),
	}

	weeks := Summarize(completed, today, 3)
	require.Len(t, weeks, 3)

	assert.Equal(t, day(2024, 2, 26), weeks[0].WeekStart)
	assert.Equal(t, day(2024, 3, 3), weeks[0].WeekEnd)
	assert.Equal(t, 2, weeks[0].DaysCompleted)
	assert.Equal(t, 7, weeks[0].TotalDays)

	assert.Equal(t, 3, weeks[1].DaysCompleted)

	assert.Equal(t, day(2024, 3, 11), weeks[2].WeekStart)
	assert.Equal(t, 1, weeks[2].DaysCompleted)
	assert.Equal(t, 3, weeks[2].TotalDays)
}

func TestSummarizeNoWeeks(t *testing.T) {
	assert.Empty(t, Summarize(nil, day(2024, 3, 13), 0))
}
