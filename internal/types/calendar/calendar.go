package calendar

import (
	"time"

	"cloud.google.com/go/civil"

	"habitTrackerAPI/internal/types/habit"
)

// CalendarDay carries the status logged on Date, or nil when nothing was
// logged.
type CalendarDay struct {
	Date    civil.Date       `json:"date"`
	Status  *habit.LogStatus `json:"status"`
	IsToday bool             `json:"isToday"`
}

type CalendarResponse struct {
	TaskID int64         `json:"taskId"`
	Year   int           `json:"year"`
	Month  int           `json:"month"`
	Days   []CalendarDay `json:"days"`
}

// MonthRange returns the first and last day of the month.
func MonthRange(year int, month time.Month) (civil.Date, civil.Date) {
	first := civil.Date{Year: year, Month: month, Day: 1}
	last := civil.DateOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))
	return first, last
}

func Build(taskID int64, year int, month time.Month, days []habit.LogDay, today civil.Date) CalendarResponse {
	byDate := make(map[civil.Date]habit.LogStatus, len(days))
	for _, d := range days {
		byDate[d.LocalDate] = d.Status
	}

	first, last := MonthRange(year, month)
	out := CalendarResponse{TaskID: taskID, Year: year, Month: int(month), Days: make([]CalendarDay, 0, 31)}
	for d := first; !d.After(last); d = d.AddDays(1) {
		day := CalendarDay{Date: d, IsToday: d == today}
		if status, ok := byDate[d]; ok {
			day.Status = &status
		}
		out.Days = append(out.Days, day)
	}
	return out
}
