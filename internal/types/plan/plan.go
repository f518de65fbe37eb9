package plan

import (
	"fmt"
	"strings"
	"time"
)

// Weekday identifies one of the seven plan slots of a user. The zero value is
// not a valid weekday.
type Weekday int

const (
	Monday Weekday = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Weekdays lists the plan slots in calendar order.
var Weekdays = [...]Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayKeys = map[Weekday]string{
	Monday:    "mon",
	Tuesday:   "tue",
	Wednesday: "wed",
	Thursday:  "thu",
	Friday:    "fri",
	Saturday:  "sat",
	Sunday:    "sun",
}

// ParseWeekday accepts the short key used in URLs ("mon".."sun"), case
// insensitive. "Mon" style day names are accepted as well.
func ParseWeekday(s string) (Weekday, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for d, k := range weekdayKeys {
		if k == key {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid day %q: must be one of mon, tue, wed, thu, fri, sat, sun", s)
}

func WeekdayOf(t time.Time) Weekday {
	if t.Weekday() == time.Sunday {
		return Sunday
	}
	return Weekday(t.Weekday())
}

func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// Key is the lower-case URL form, e.g. "mon".
func (d Weekday) Key() string {
	return weekdayKeys[d]
}

// Short is the display form stored on workout logs, e.g. "Mon".
func (d Weekday) Short() string {
	k := d.Key()
	if k == "" {
		return ""
	}
	return strings.ToUpper(k[:1]) + k[1:]
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return d.Short()
}

type Set struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
}

type Exercise struct {
	Name string `json:"name"`
	Sets []Set  `json:"sets"`
}

type WorkoutPlan struct {
	WorkoutDay string     `json:"workoutDay"`
	Exercises  []Exercise `json:"exercises"`
}

func (p *WorkoutPlan) Validate() []string {
	var problems []string
	if strings.TrimSpace(p.WorkoutDay) == "" {
		problems = append(problems, "workoutDay is required")
	}
	for i, ex := range p.Exercises {
		if strings.TrimSpace(ex.Name) == "" {
			problems = append(problems, fmt.Sprintf("exercises[%d].name is required", i))
		}
		for j, s := range ex.Sets {
			if s.Reps < 0 || s.Weight < 0 {
				problems = append(problems, fmt.Sprintf("exercises[%d].sets[%d] must not be negative", i, j))
			}
		}
	}
	return problems
}
