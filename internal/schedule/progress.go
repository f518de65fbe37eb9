package schedule

import (
	"fmt"
	"math"
	"strings"

	"habitTrackerAPI/internal/types/habit"
)

type TargetState int

const (
	NoTarget TargetState = iota
	InProgress
	Achieved
)

func (s TargetState) String() string {
	switch s {
	case NoTarget:
		return "no_target"
	case InProgress:
		return "in_progress"
	case Achieved:
		return "achieved"
	}
	return fmt.Sprintf("TargetState(%d)", int(s))
}

// StateOf classifies the habit's current target.
func StateOf(h habit.HabitTask) TargetState {
	switch {
	case h.TargetValue == nil:
		return NoTarget
	case h.TargetAchieved:
		return Achieved
	default:
		return InProgress
	}
}

// ProgressTracker accumulates progress toward a habit's target and manages
// target cycles. Methods take and return habits by value.
type ProgressTracker struct {
	clock Clock
}

func NewProgressTracker(clock Clock) *ProgressTracker {
	if clock == nil {
		clock = SystemClock()
	}
	return &ProgressTracker{clock: clock}
}

// AddProgress folds quantity into the current progress. Habits without a
// target are returned unchanged.
func (p *ProgressTracker) AddProgress(h habit.HabitTask, quantity float64) (habit.HabitTask, error) {
	if math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity < 0 {
		return h, fmt.Errorf("%w: %v", ErrNegativeQuantity, quantity)
	}

	switch StateOf(h) {
	case NoTarget:
		return h, nil
	case Achieved:
		return h, ErrTargetAchieved
	}

	h.CurrentProgress += quantity
	return h, nil
}

// EvaluateAchievement marks the target achieved once progress reaches it.
// It is a no-op for habits that have no target or already achieved it.
func (p *ProgressTracker) EvaluateAchievement(h habit.HabitTask) habit.HabitTask {
	if StateOf(h) != InProgress || h.CurrentProgress < *h.TargetValue {
		return h
	}
	now := p.clock.Now()
	h.TargetAchieved = true
	h.TargetAchievedAt = &now
	return h
}

// StartNewTarget replaces the habit's target and resets its progress. When a
// target was active, the superseded cycle is returned as a history entry; the
// caller must persist it together with the updated habit.
func (p *ProgressTracker) StartNewTarget(h habit.HabitTask, value float64, unit string) (habit.HabitTask, *habit.TargetHistoryEntry, error) {
	unit = strings.TrimSpace(unit)
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return h, nil, fmt.Errorf("%w: target value must be positive, got %v", ErrInvalidTarget, value)
	}
	if unit == "" {
		return h, nil, fmt.Errorf("%w: target unit is required", ErrInvalidTarget)
	}

	now := p.clock.Now()

	var entry *habit.TargetHistoryEntry
	if h.TargetValue != nil {
		startedAt := h.CreatedAt
		if h.TargetSetAt != nil {
			startedAt = *h.TargetSetAt
		}
		oldUnit := ""
		if h.TargetUnit != nil {
			oldUnit = *h.TargetUnit
		}
		entry = &habit.TargetHistoryEntry{
			TaskID:        h.ID,
			TargetValue:   *h.TargetValue,
			TargetUnit:    oldUnit,
			StartedAt:     startedAt,
			AchievedAt:    h.TargetAchievedAt,
			FinalProgress: h.CurrentProgress,
		}
	}

	h.TargetValue = &value
	h.TargetUnit = &unit
	h.CurrentProgress = 0
	h.TargetAchieved = false
	h.TargetAchievedAt = nil
	h.TargetSetAt = &now
	return h, entry, nil
}
