package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/repository"
	"habitTrackerAPI/internal/schedule"
	"habitTrackerAPI/internal/types/habit"
)

type HabitService struct {
	habits     HabitStore
	users      UserStore
	categories CategoryStore
	progress   *schedule.ProgressTracker
	clock      schedule.Clock
	logger     *zap.Logger
}

func NewHabitService(habits HabitStore, users UserStore, categories CategoryStore, clock schedule.Clock, logger *zap.Logger) *HabitService {
	if clock == nil {
		clock = schedule.SystemClock()
	}
	return &HabitService{
		habits:     habits,
		users:      users,
		categories: categories,
		progress:   schedule.NewProgressTracker(clock),
		clock:      clock,
		logger:     logger,
	}
}

// ListHabits returns the user's active habits. With asOf set, only habits
// due on or before that date are included.
func (s *HabitService) ListHabits(ctx context.Context, userID int64, asOf *civil.Date) ([]habit.HabitTask, error) {
	habits, err := s.habits.ListByUser(ctx, userID, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	return habits, nil
}

func (s *HabitService) GetHabit(ctx context.Context, userID, id int64) (*habit.HabitTask, error) {
	return s.ownedHabit(ctx, userID, id)
}

func (s *HabitService) CreateHabit(ctx context.Context, userID int64, req *habit.CreateHabitRequest) (*habit.HabitTask, error) {
	if err := invalid(req.Validate()...); err != nil {
		return nil, err
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, userID, req.CategoryID); err != nil {
		return nil, err
	}

	h := &habit.HabitTask{
		UserID:            userID,
		TaskName:          strings.TrimSpace(req.TaskName),
		TaskDescription:   req.TaskDescription,
		StartDate:         *req.StartDate,
		FrequencyOfTask:   habit.Frequency(strings.TrimSpace(string(req.FrequencyOfTask))),
		Routine:           req.Routine,
		DisplayOrder:      req.DisplayOrder,
		Kind:              req.Kind,
		CategoryID:        req.CategoryID,
		NextExecutionDate: req.StartDate,
	}
	if req.TargetValue != nil {
		unit := strings.TrimSpace(*req.TargetUnit)
		now := s.clock.Now()
		h.TargetValue = req.TargetValue
		h.TargetUnit = &unit
		h.TargetSetAt = &now
	}

	created, err := s.habits.Create(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("failed to create habit: %w", err)
	}
	return created, nil
}

// UpdateHabit applies a direct edit. Targets are changed through SetTarget.
func (s *HabitService) UpdateHabit(ctx context.Context, userID, id int64, req *habit.UpdateHabitRequest) (*habit.HabitTask, error) {
	if req.Empty() {
		return nil, invalid("nothing to update")
	}
	if err := invalid(req.Validate()...); err != nil {
		return nil, err
	}
	if err := s.requireCategory(ctx, userID, req.CategoryID); err != nil {
		return nil, err
	}

	updated, err := s.habits.Modify(ctx, id, func(current habit.HabitTask) (habit.HabitTask, *habit.TargetHistoryEntry, error) {
		if current.UserID != userID {
			return current, nil, ErrForbidden
		}
		req.Apply(&current, s.clock.Now())
		return current, nil, nil
	})
	if err != nil {
		return nil, s.habitError(id, err)
	}
	return updated, nil
}

func (s *HabitService) DeleteHabit(ctx context.Context, userID, id int64) error {
	if _, err := s.ownedHabit(ctx, userID, id); err != nil {
		return err
	}
	if err := s.habits.Delete(ctx, userID, id); err != nil {
		return s.habitError(id, err)
	}
	return nil
}

// SetTarget starts a new target cycle. The superseded target, if any, is
// archived in the same transaction as the reset.
func (s *HabitService) SetTarget(ctx context.Context, userID, id int64, req *habit.SetTargetRequest) (*habit.HabitTask, error) {
	if err := invalid(req.Validate()...); err != nil {
		return nil, err
	}

	updated, err := s.habits.Modify(ctx, id, func(current habit.HabitTask) (habit.HabitTask, *habit.TargetHistoryEntry, error) {
		if current.UserID != userID {
			return current, nil, ErrForbidden
		}
		next, entry, err := s.progress.StartNewTarget(current, *req.TargetValue, req.TargetUnit)
		if err != nil {
			if errors.Is(err, schedule.ErrInvalidTarget) {
				return current, nil, invalid(err.Error())
			}
			return current, nil, err
		}
		return next, entry, nil
	})
	if err != nil {
		return nil, s.habitError(id, err)
	}

	s.logger.Info("new target started",
		zap.Int64("habit_id", id),
		zap.Float64("target_value", *updated.TargetValue),
		zap.String("target_unit", *updated.TargetUnit),
	)
	return updated, nil
}

func (s *HabitService) TargetHistory(ctx context.Context, userID, id int64) ([]habit.TargetHistoryEntry, error) {
	if _, err := s.ownedHabit(ctx, userID, id); err != nil {
		return nil, err
	}
	entries, err := s.habits.ListTargetHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list target history: %w", err)
	}
	return entries, nil
}

func (s *HabitService) ownedHabit(ctx context.Context, userID, id int64) (*habit.HabitTask, error) {
	h, err := s.habits.GetByID(ctx, id)
	if err != nil {
		return nil, s.habitError(id, err)
	}
	if h.UserID != userID {
		return nil, ErrForbidden
	}
	return h, nil
}

func (s *HabitService) requireUser(ctx context.Context, userID int64) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}
	return nil
}

func (s *HabitService) requireCategory(ctx context.Context, userID int64, categoryID *int64) error {
	if categoryID == nil {
		return nil
	}
	if _, err := s.categories.Get(ctx, userID, *categoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to get category: %w", err)
	}
	return nil
}

func (s *HabitService) habitError(id int64, err error) error {
	var verr *ValidationError
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrHabitNotFound
	case errors.Is(err, ErrForbidden), errors.As(err, &verr):
		return err
	}
	return fmt.Errorf("habit %d: %w", id, err)
}
