package events

import (
	"time"

	"habitTrackerAPI/internal/types/habit"
)

// Routing keys on the habits exchange.
const (
	LogRecorded    = "habit.log.recorded"
	TargetAchieved = "habit.target.achieved"
)

type LogRecordedEvent struct {
	LogID      int64     `json:"logId"`
	HabitID    int64     `json:"habitId"`
	UserID     int64     `json:"userId"`
	Status     string    `json:"status"`
	Source     string    `json:"source"`
	Quantity   *float64  `json:"quantity,omitempty"`
	Unit       *string   `json:"unit,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	LocalDate  string    `json:"localDate"`
}

func NewLogRecorded(l habit.TaskLog) LogRecordedEvent {
	return LogRecordedEvent{
		LogID:      l.ID,
		HabitID:    l.TaskID,
		UserID:     l.UserID,
		Status:     string(l.Status),
		Source:     string(l.Source),
		Quantity:   l.Quantity,
		Unit:       l.Unit,
		OccurredAt: l.OccurredAt,
		LocalDate:  l.LocalDate.String(),
	}
}

type TargetAchievedEvent struct {
	HabitID     int64      `json:"habitId"`
	UserID      int64      `json:"userId"`
	TaskName    string     `json:"taskName"`
	TargetValue float64    `json:"targetValue"`
	TargetUnit  string     `json:"targetUnit"`
	Progress    float64    `json:"progress"`
	AchievedAt  *time.Time `json:"achievedAt"`
}

func NewTargetAchieved(h habit.HabitTask) TargetAchievedEvent {
	e := TargetAchievedEvent{
		HabitID:    h.ID,
		UserID:     h.UserID,
		TaskName:   h.TaskName,
		Progress:   h.CurrentProgress,
		AchievedAt: h.TargetAchievedAt,
	}
	if h.TargetValue != nil {
		e.TargetValue = *h.TargetValue
	}
	if h.TargetUnit != nil {
		e.TargetUnit = *h.TargetUnit
	}
	return e
}
