package workout

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type LoggedSet struct {
	Reps      int     `json:"reps"`
	Weight    float64 `json:"weight"`
	Completed bool    `json:"completed,omitempty"`
}

type ExerciseEntry struct {
	Name string      `json:"name"`
	Sets []LoggedSet `json:"sets"`
}

type WorkoutLog struct {
	ID        int64           `json:"id" db:"id"`
	UserID    int64           `json:"userId" db:"user_id"`
	Date      civil.Date      `json:"date" db:"date"`
	DayName   string          `json:"dayName" db:"day_name"`
	PlanName  string          `json:"planName" db:"plan_name"`
	Entries   []ExerciseEntry `json:"entries" db:"entries"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// CompletedEntries keeps only the sets that were actually performed (reps and
// weight both above zero). Exercises left without sets are dropped.
func CompletedEntries(entries []ExerciseEntry) []ExerciseEntry {
	out := make([]ExerciseEntry, 0, len(entries))
	for _, e := range entries {
		var sets []LoggedSet
		for _, s := range e.Sets {
			if s.Reps > 0 && s.Weight > 0 {
				sets = append(sets, s)
			}
		}
		if len(sets) == 0 {
			continue
		}
		out = append(out, ExerciseEntry{Name: strings.TrimSpace(e.Name), Sets: sets})
	}
	return out
}

func CountSets(entries []ExerciseEntry) int {
	n := 0
	for _, e := range entries {
		n += len(e.Sets)
	}
	return n
}

type CreateWorkoutLogRequest struct {
	DayKey  string          `json:"dayKey"`
	Entries []ExerciseEntry `json:"entries"`
	Date    *civil.Date     `json:"date"`
}

type UpdateWorkoutLogRequest struct {
	Entries []ExerciseEntry `json:"entries"`
}

type LogFilter struct {
	Date    *civil.Date
	DayName string
}
