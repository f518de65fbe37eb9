package stats

import (
	"cloud.google.com/go/civil"

	"habitTrackerAPI/internal/types/habit"
	"habitTrackerAPI/internal/weekly_stats"
)

// HabitStats summarises the completed days of one habit. A streak counts
// consecutive completions that each came within the habit's frequency of
// the one before.
type HabitStats struct {
	TodayStatus        bool                       `json:"todayStatus"`
	DaysThisWeek       int                        `json:"daysThisWeek"`
	DaysThisMonth      int                        `json:"daysThisMonth"`
	DaysThisYear       int                        `json:"daysThisYear"`
	TotalDaysCompleted int                        `json:"totalDaysCompleted"`
	CurrentStreak      int                        `json:"currentStreak"`
	LongestStreak      int                        `json:"longestStreak"`
	LastCompleted      *civil.Date                `json:"lastCompleted"`
	Weekly             []weekly_stats.WeeklyStats `json:"weekly"`
}

// CompletedDates keeps the completed days, in the order given.
func CompletedDates(days []habit.LogDay) []civil.Date {
	out := make([]civil.Date, 0, len(days))
	for _, d := range days {
		if d.Status == habit.StatusCompleted {
			out = append(out, d.LocalDate)
		}
	}
	return out
}

// Compute expects completed sorted oldest first with no duplicates. Days
// after today are ignored. A frequency below one is treated as daily.
func Compute(completed []civil.Date, today civil.Date, frequency, weeks int) HabitStats {
	if frequency < 1 {
		frequency = 1
	}

	weekStart := weekly_stats.WeekStart(today)
	s := HabitStats{Weekly: weekly_stats.Summarize(completed, today, weeks)}

	var (
		run  int
		last *civil.Date
	)
	for i := range completed {
		d := completed[i]
		if d.After(today) {
			break
		}

		s.TotalDaysCompleted++
		if d == today {
			s.TodayStatus = true
		}
		if !d.Before(weekStart) {
			s.DaysThisWeek++
		}
		if d.Year == today.Year {
			s.DaysThisYear++
			if d.Month == today.Month {
				s.DaysThisMonth++
			}
		}

		if last != nil && d.DaysSince(*last) <= frequency {
			run++
		} else {
			run = 1
		}
		if run > s.LongestStreak {
			s.LongestStreak = run
		}
		last = &completed[i]
	}

	if last != nil {
		lastDay := *last
		s.LastCompleted = &lastDay
		if today.DaysSince(lastDay) <= frequency {
			s.CurrentStreak = run
		}
	}
	return s
}
