package habit

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type Routine string

const (
	RoutineAnytime   Routine = "anytime"
	RoutineMorning   Routine = "morning"
	RoutineAfternoon Routine = "afternoon"
	RoutineEvening   Routine = "evening"
)

func (r Routine) Valid() bool {
	switch r {
	case RoutineAnytime, RoutineMorning, RoutineAfternoon, RoutineEvening:
		return true
	}
	return false
}

type Kind string

const (
	KindBinary   Kind = "binary"
	KindQuantity Kind = "quantity"
	KindTimer    Kind = "timer"
)

func (k Kind) Valid() bool {
	switch k {
	case KindBinary, KindQuantity, KindTimer:
		return true
	}
	return false
}

type LogStatus string

const (
	StatusCompleted LogStatus = "completed"
	StatusSkipped   LogStatus = "skipped"
	StatusFailed    LogStatus = "failed"
)

func (s LogStatus) Valid() bool {
	switch s {
	case StatusCompleted, StatusSkipped, StatusFailed:
		return true
	}
	return false
}

type LogSource string

const (
	SourceManual     LogSource = "manual"
	SourceReminder   LogSource = "reminder"
	SourceImport     LogSource = "import"
	SourceAutomation LogSource = "automation"
)

func (s LogSource) Valid() bool {
	switch s {
	case SourceManual, SourceReminder, SourceImport, SourceAutomation:
		return true
	}
	return false
}

// Frequency is the repeat interval of a habit in days, stored as entered.
// Clients send it either as a JSON number or a string.
type Frequency string

// Days parses the frequency. Only finite positive integers are accepted.
func (f Frequency) Days() (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(string(f)))
	if err != nil {
		return 0, fmt.Errorf("frequency %q is not a whole number of days", string(f))
	}
	if n <= 0 {
		return 0, fmt.Errorf("frequency %d must be positive", n)
	}
	return n, nil
}

func (f *Frequency) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = Frequency(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("frequencyOfTask must be a number or a string")
	}
	*f = Frequency(n.String())
	return nil
}

type HabitTask struct {
	ID                int64       `json:"id" db:"id"`
	UserID            int64       `json:"userId" db:"user_id"`
	TaskName          string      `json:"taskName" db:"task_name"`
	TaskDescription   *string     `json:"taskDescription" db:"task_description"`
	StartDate         civil.Date  `json:"startDate" db:"start_date"`
	FrequencyOfTask   Frequency   `json:"frequencyOfTask" db:"frequency_of_task"`
	Routine           *Routine    `json:"routine" db:"routine"`
	DisplayOrder      *int        `json:"displayOrder" db:"display_order"`
	Kind              *Kind       `json:"kind" db:"kind"`
	CategoryID        *int64      `json:"categoryId" db:"category_id"`
	LastExecutionDate *civil.Date `json:"lastExecutionDate" db:"last_execution_date"`
	NextExecutionDate *civil.Date `json:"nextExecutionDate" db:"next_execution_date"`
	TargetValue       *float64    `json:"targetValue" db:"target_value"`
	TargetUnit        *string     `json:"targetUnit" db:"target_unit"`
	CurrentProgress   float64     `json:"currentProgress" db:"current_progress"`
	TargetAchieved    bool        `json:"targetAchieved" db:"target_achieved"`
	TargetAchievedAt  *time.Time  `json:"targetAchievedAt" db:"target_achieved_at"`
	TargetSetAt       *time.Time  `json:"targetSetAt" db:"target_set_at"`
	CreatedAt         time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt         time.Time   `json:"updatedAt" db:"updated_at"`
	ArchivedAt        *time.Time  `json:"archivedAt" db:"archived_at"`
}

// DueDate is the date the habit is next actionable, falling back to the
// start date for habits that were never completed.
func (h *HabitTask) DueDate() civil.Date {
	if h.NextExecutionDate != nil {
		return *h.NextExecutionDate
	}
	return h.StartDate
}

func (h *HabitTask) IsDue(asOf civil.Date) bool {
	return !h.DueDate().After(asOf)
}

func (h *HabitTask) Archived() bool {
	return h.ArchivedAt != nil
}

type TaskLog struct {
	ID              int64          `json:"id" db:"id"`
	UserID          int64          `json:"userId" db:"user_id"`
	TaskID          int64          `json:"taskId" db:"task_id"`
	HabitName       *string        `json:"habitName" db:"habit_name"`
	Status          LogStatus      `json:"status" db:"status"`
	Quantity        *float64       `json:"quantity" db:"quantity"`
	Unit            *string        `json:"unit" db:"unit"`
	DurationSeconds *int           `json:"durationSeconds" db:"duration_seconds"`
	OccurredAt      time.Time      `json:"occurredAt" db:"occurred_at"`
	TZ              string         `json:"tz" db:"tz"`
	LocalDate       civil.Date     `json:"localDate" db:"local_date"`
	Source          LogSource      `json:"source" db:"source"`
	Note            *string        `json:"note" db:"note"`
	Metadata        map[string]any `json:"metadata" db:"metadata"`
	CreatedAt       time.Time      `json:"createdAt" db:"created_at"`
}

type TargetHistoryEntry struct {
	ID            int64      `json:"id" db:"id"`
	TaskID        int64      `json:"taskId" db:"task_id"`
	TargetValue   float64    `json:"targetValue" db:"target_value"`
	TargetUnit    string     `json:"targetUnit" db:"target_unit"`
	StartedAt     time.Time  `json:"startedAt" db:"started_at"`
	AchievedAt    *time.Time `json:"achievedAt" db:"achieved_at"`
	FinalProgress float64    `json:"finalProgress" db:"final_progress"`
}
