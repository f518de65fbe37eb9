package weekly_stats

import (
	"time"

	"cloud.google.com/go/civil"

	"habitTrackerAPI/internal/types/plan"
)

// WeeklyStats counts completed days in one Monday-to-Sunday week.
type WeeklyStats struct {
	WeekStart     civil.Date `json:"weekStart"`
	WeekEnd       civil.Date `json:"weekEnd"`
	DaysCompleted int        `json:"daysCompleted"`
	TotalDays     int        `json:"totalDays"`
}

// WeekStart returns the Monday of the week containing d.
func WeekStart(d civil.Date) civil.Date {
	wd := plan.WeekdayOf(d.In(time.UTC))
	return d.AddDays(-(int(wd) - int(plan.Monday)))
}

// Summarize returns the given number of weeks ending with the week of today,
// oldest first. TotalDays of the current week only counts days up to today.
func Summarize(completed []civil.Date, today civil.Date, weeks int) []WeeklyStats {
	if weeks <= 0 {
		return []WeeklyStats{}
	}

	current := WeekStart(today)
	out := make([]WeeklyStats, weeks)
	for i := range out {
		start := current.AddDays(-7 * (weeks - 1 - i))
		out[i] = WeeklyStats{WeekStart: start, WeekEnd: start.AddDays(6), TotalDays: 7}
	}
	out[weeks-1].TotalDays = today.DaysSince(current) + 1

	first := out[0].WeekStart
	for _, d := range completed {
		if d.Before(first) || d.After(today) {
			continue
		}
		out[d.DaysSince(first)/7].DaysCompleted++
	}
	return out
}
