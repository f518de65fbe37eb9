package schedule

import (
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"

	"habitTrackerAPI/internal/types/habit"
)

// Mutation is the set of habit fields a recorded log changes. Nil fields are
// left as stored.
type Mutation struct {
	LastExecutionDate *civil.Date
	NextExecutionDate *civil.Date
	CurrentProgress   *float64
	TargetAchieved    *bool
	TargetAchievedAt  *time.Time
}

// IsEmpty reports whether m changes nothing.
func (m Mutation) IsEmpty() bool {
	return m.LastExecutionDate == nil && m.NextExecutionDate == nil &&
		m.CurrentProgress == nil && m.TargetAchieved == nil && m.TargetAchievedAt == nil
}

// Achieves reports whether applying m marks the habit's target as achieved.
func (m Mutation) Achieves() bool {
	return m.TargetAchieved != nil && *m.TargetAchieved
}

// Apply returns h with every field set in m copied over.
func (m Mutation) Apply(h habit.HabitTask) habit.HabitTask {
	if m.LastExecutionDate != nil {
		d := *m.LastExecutionDate
		h.LastExecutionDate = &d
	}
	if m.NextExecutionDate != nil {
		d := *m.NextExecutionDate
		h.NextExecutionDate = &d
	}
	if m.CurrentProgress != nil {
		h.CurrentProgress = *m.CurrentProgress
	}
	if m.TargetAchieved != nil {
		h.TargetAchieved = *m.TargetAchieved
	}
	if m.TargetAchievedAt != nil {
		t := *m.TargetAchievedAt
		h.TargetAchievedAt = &t
	}
	return h
}

// Reconciler turns a recorded log into the habit mutation it implies.
type Reconciler struct {
	progress *ProgressTracker
}

func NewReconciler(progress *ProgressTracker) *Reconciler {
	if progress == nil {
		progress = NewProgressTracker(nil)
	}
	return &Reconciler{progress: progress}
}

// Reconcile computes the mutation for log l against the current state of h.
// Only completed logs change anything. A non-nil error is a warning: the
// returned mutation is still the best that could be computed and should be
// applied.
func (r *Reconciler) Reconcile(h habit.HabitTask, l habit.TaskLog) (Mutation, error) {
	var m Mutation
	if l.Status != habit.StatusCompleted {
		return m, nil
	}

	var warnings []error

	completed, err := completionDate(l)
	if err != nil {
		warnings = append(warnings, fmt.Errorf("reschedule: %w", err))
	} else {
		due, err := ComputeNextDueDate(h.StartDate, h.FrequencyOfTask, completed)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("reschedule: %w", err))
		} else {
			m.LastExecutionDate = &due.LastExecutionDate
			m.NextExecutionDate = &due.NextExecutionDate
		}
	}

	if l.Quantity != nil && StateOf(h) == InProgress {
		updated, err := r.progress.AddProgress(h, *l.Quantity)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("progress: %w", err))
		} else {
			updated = r.progress.EvaluateAchievement(updated)
			m.CurrentProgress = &updated.CurrentProgress
			if updated.TargetAchieved {
				m.TargetAchieved = &updated.TargetAchieved
				m.TargetAchievedAt = updated.TargetAchievedAt
			}
		}
	}

	return m, errors.Join(warnings...)
}

func completionDate(l habit.TaskLog) (civil.Date, error) {
	d, err := LocalDate(l.OccurredAt, l.TZ)
	if err == nil {
		return d, nil
	}
	if l.LocalDate.IsValid() {
		return l.LocalDate, nil
	}
	return civil.Date{}, err
}
