package habit

import (
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type CreateHabitRequest struct {
	TaskName        string      `json:"taskName"`
	TaskDescription *string     `json:"taskDescription"`
	StartDate       *civil.Date `json:"startDate"`
	FrequencyOfTask Frequency   `json:"frequencyOfTask"`
	Routine         *Routine    `json:"routine"`
	DisplayOrder    *int        `json:"displayOrder"`
	Kind            *Kind       `json:"kind"`
	CategoryID      *int64      `json:"categoryId"`
	TargetValue     *float64    `json:"targetValue"`
	TargetUnit      *string     `json:"targetUnit"`
}

func (r *CreateHabitRequest) Validate() []string {
	var problems []string
	if strings.TrimSpace(r.TaskName) == "" {
		problems = append(problems, "taskName is required")
	}
	if r.StartDate == nil || !r.StartDate.IsValid() {
		problems = append(problems, "startDate is required")
	}
	if strings.TrimSpace(string(r.FrequencyOfTask)) == "" {
		problems = append(problems, "frequencyOfTask is required")
	}
	if r.Routine != nil && !r.Routine.Valid() {
		problems = append(problems, "routine must be one of anytime, morning, afternoon, evening")
	}
	if r.Kind != nil && !r.Kind.Valid() {
		problems = append(problems, "kind must be one of binary, quantity, timer")
	}
	problems = append(problems, validateTarget(r.TargetValue, r.TargetUnit, false)...)
	return problems
}

// UpdateHabitRequest is a direct edit of a habit. Target changes go through
// SetTargetRequest so that superseded targets are archived.
type UpdateHabitRequest struct {
	TaskName          *string     `json:"taskName"`
	TaskDescription   *string     `json:"taskDescription"`
	StartDate         *civil.Date `json:"startDate"`
	FrequencyOfTask   *Frequency  `json:"frequencyOfTask"`
	Routine           *Routine    `json:"routine"`
	DisplayOrder      *int        `json:"displayOrder"`
	Kind              *Kind       `json:"kind"`
	CategoryID        *int64      `json:"categoryId"`
	LastExecutionDate *civil.Date `json:"lastExecutionDate"`
	NextExecutionDate *civil.Date `json:"nextExecutionDate"`
	Archived          *bool       `json:"archived"`
}

func (r *UpdateHabitRequest) Empty() bool {
	return r.TaskName == nil && r.TaskDescription == nil && r.StartDate == nil &&
		r.FrequencyOfTask == nil && r.Routine == nil && r.DisplayOrder == nil &&
		r.Kind == nil && r.CategoryID == nil && r.LastExecutionDate == nil &&
		r.NextExecutionDate == nil && r.Archived == nil
}

func (r *UpdateHabitRequest) Validate() []string {
	var problems []string
	if r.TaskName != nil && strings.TrimSpace(*r.TaskName) == "" {
		problems = append(problems, "taskName cannot be empty")
	}
	if r.StartDate != nil && !r.StartDate.IsValid() {
		problems = append(problems, "startDate is not a valid date")
	}
	if r.FrequencyOfTask != nil && strings.TrimSpace(string(*r.FrequencyOfTask)) == "" {
		problems = append(problems, "frequencyOfTask cannot be empty")
	}
	if r.Routine != nil && !r.Routine.Valid() {
		problems = append(problems, "routine must be one of anytime, morning, afternoon, evening")
	}
	if r.Kind != nil && !r.Kind.Valid() {
		problems = append(problems, "kind must be one of binary, quantity, timer")
	}
	return problems
}

// Apply copies the edited fields onto h.
func (r *UpdateHabitRequest) Apply(h *HabitTask, now time.Time) {
	if r.TaskName != nil {
		name := strings.TrimSpace(*r.TaskName)
		h.TaskName = name
	}
	if r.TaskDescription != nil {
		h.TaskDescription = r.TaskDescription
	}
	if r.StartDate != nil {
		h.StartDate = *r.StartDate
	}
	if r.FrequencyOfTask != nil {
		h.FrequencyOfTask = *r.FrequencyOfTask
	}
	if r.Routine != nil {
		h.Routine = r.Routine
	}
	if r.DisplayOrder != nil {
		h.DisplayOrder = r.DisplayOrder
	}
	if r.Kind != nil {
		h.Kind = r.Kind
	}
	if r.CategoryID != nil {
		h.CategoryID = r.CategoryID
	}
	if r.LastExecutionDate != nil {
		h.LastExecutionDate = r.LastExecutionDate
	}
	if r.NextExecutionDate != nil {
		h.NextExecutionDate = r.NextExecutionDate
	}
	if r.Archived != nil {
		switch {
		case *r.Archived && h.ArchivedAt == nil:
			h.ArchivedAt = &now
		case !*r.Archived:
			h.ArchivedAt = nil
		}
	}
}

type SetTargetRequest struct {
	TargetValue *float64 `json:"targetValue"`
	TargetUnit  string   `json:"targetUnit"`
}

func (r *SetTargetRequest) Validate() []string {
	if r.TargetValue == nil {
		return []string{"targetValue is required"}
	}
	unit := r.TargetUnit
	return validateTarget(r.TargetValue, &unit, true)
}

func validateTarget(value *float64, unit *string, requireUnit bool) []string {
	var problems []string
	if value == nil {
		if unit != nil && strings.TrimSpace(*unit) != "" && requireUnit {
			problems = append(problems, "targetValue is required")
		}
		return problems
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) || *value <= 0 {
		problems = append(problems, "targetValue must be a positive number")
	}
	if unit == nil || strings.TrimSpace(*unit) == "" {
		problems = append(problems, "targetUnit is required when targetValue is set")
	}
	return problems
}

type CreateLogRequest struct {
	TaskID          int64          `json:"taskId"`
	HabitName       *string        `json:"habitName"`
	Status          *LogStatus     `json:"status"`
	Quantity        *float64       `json:"quantity"`
	Unit            *string        `json:"unit"`
	DurationSeconds *int           `json:"durationSeconds"`
	OccurredAt      *time.Time     `json:"occurredAt"`
	TZ              *string        `json:"tz"`
	Source          *LogSource     `json:"source"`
	Note            *string        `json:"note"`
	Metadata        map[string]any `json:"metadata"`
}

func (r *CreateLogRequest) Validate() []string {
	var problems []string
	if r.TaskID <= 0 {
		problems = append(problems, "taskId is required")
	}
	if r.Status != nil && !r.Status.Valid() {
		problems = append(problems, "status must be one of completed, skipped, failed")
	}
	if r.Source != nil && !r.Source.Valid() {
		problems = append(problems, "source must be one of manual, reminder, import, automation")
	}
	if r.Quantity != nil && (math.IsNaN(*r.Quantity) || math.IsInf(*r.Quantity, 0) || *r.Quantity < 0) {
		problems = append(problems, "quantity must be a non-negative number")
	}
	if r.DurationSeconds != nil && *r.DurationSeconds < 0 {
		problems = append(problems, "durationSeconds must not be negative")
	}
	return problems
}

type LogFilter struct {
	TaskID *int64
	Limit  int
}

// LogResult is returned for a recorded log. Warning is set when the log was
// stored but the habit's schedule or progress could not be brought up to date.
type LogResult struct {
	Log     *TaskLog   `json:"log"`
	Habit   *HabitTask `json:"habit,omitempty"`
	Warning string     `json:"warning,omitempty"`
}

// LogDay is the status recorded for a habit on one local date.
type LogDay struct {
	LocalDate civil.Date `json:"localDate"`
	Status    LogStatus  `json:"status"`
}
