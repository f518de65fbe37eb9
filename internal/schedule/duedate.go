package schedule

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"cloud.google.com/go/civil"

	"habitTrackerAPI/internal/types/habit"
)

type DueDates struct {
	LastExecutionDate civil.Date
	NextExecutionDate civil.Date
}

// ComputeNextDueDate reschedules a habit after a completion on the given local
// date. The next due date is exactly completion + frequency calendar days; a
// completion dated before startDate is taken as given. An error wrapping
// ErrInvalidFrequency means the habit keeps its current schedule.
func ComputeNextDueDate(startDate civil.Date, frequency habit.Frequency, completion civil.Date) (DueDates, error) {
	days, err := frequency.Days()
	if err != nil {
		return DueDates{}, fmt.Errorf("%w: %v", ErrInvalidFrequency, err)
	}
	if !completion.IsValid() {
		return DueDates{}, fmt.Errorf("completion date %q is not a calendar date", completion.String())
	}

	return DueDates{LastExecutionDate: completion, NextExecutionDate: completion.AddDays(days)}, nil
}

// LoadLocation resolves an IANA zone name. Unlike time.LoadLocation an empty
// name is rejected instead of meaning UTC.
func LoadLocation(tz string) (*time.Location, error) {
	name := strings.TrimSpace(tz)
	if name == "" {
		return nil, fmt.Errorf("%w: empty zone name", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTimezone, name, err)
	}
	return loc, nil
}

// LocalDate is the calendar date of occurredAt as seen on a wall clock in tz.
func LocalDate(occurredAt time.Time, tz string) (civil.Date, error) {
	loc, err := LoadLocation(tz)
	if err != nil {
		return civil.Date{}, err
	}
	return civil.DateOf(occurredAt.In(loc)), nil
}
