package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/repository"
	"habitTrackerAPI/internal/schedule"
	"habitTrackerAPI/internal/types/plan"
	"habitTrackerAPI/internal/types/workout"
)

type WorkoutService struct {
	users    UserStore
	logs     WorkoutLogStore
	clock    schedule.Clock
	timezone string
	logger   *zap.Logger
}

func NewWorkoutService(users UserStore, logs WorkoutLogStore, clock schedule.Clock, timezone string, logger *zap.Logger) *WorkoutService {
	if clock == nil {
		clock = schedule.SystemClock()
	}
	return &WorkoutService{users: users, logs: logs, clock: clock, timezone: timezone, logger: logger}
}

// CreateLog records a workout against the user's plan for req.DayKey. Only
// completed sets are stored.
func (s *WorkoutService) CreateLog(ctx context.Context, userID int64, req *workout.CreateWorkoutLogRequest) (*workout.WorkoutLog, error) {
	day, err := plan.ParseWeekday(req.DayKey)
	if err != nil {
		return nil, invalid(err.Error())
	}

	p, err := s.users.GetPlan(ctx, userID, day)
	if err != nil {
		return nil, userError(err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w for %s", ErrPlanNotFound, day.Key())
	}

	date, err := s.logDate(req.Date)
	if err != nil {
		return nil, err
	}

	entries := workout.CompletedEntries(req.Entries)
	if len(entries) == 0 {
		return nil, invalid("no completed sets to save: every set needs reps and weight above zero")
	}

	l, err := s.logs.Create(ctx, &workout.WorkoutLog{
		UserID:   userID,
		Date:     date,
		DayName:  plan.WeekdayOf(date.In(time.UTC)).Short(),
		PlanName: p.WorkoutDay,
		Entries:  entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save workout log: %w", err)
	}

	s.logger.Info("workout logged",
		zap.Int64("user_id", userID),
		zap.String("date", date.String()),
		zap.Int("sets", workout.CountSets(entries)),
	)
	return l, nil
}

func (s *WorkoutService) ListLogs(ctx context.Context, userID int64, date *civil.Date, day string) ([]workout.WorkoutLog, error) {
	filter := workout.LogFilter{Date: date}
	if day != "" {
		d, err := plan.ParseWeekday(day)
		if err != nil {
			return nil, invalid(err.Error())
		}
		filter.DayName = d.Short()
	}

	logs, err := s.logs.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list workout logs: %w", err)
	}
	return logs, nil
}

func (s *WorkoutService) GetLog(ctx context.Context, userID, id int64) (*workout.WorkoutLog, error) {
	l, err := s.logs.Get(ctx, userID, id)
	if err != nil {
		return nil, workoutLogError(err)
	}
	return l, nil
}

func (s *WorkoutService) UpdateLog(ctx context.Context, userID, id int64, req *workout.UpdateWorkoutLogRequest) (*workout.WorkoutLog, error) {
	entries := workout.CompletedEntries(req.Entries)
	if len(entries) == 0 {
		return nil, invalid("no completed sets to save: every set needs reps and weight above zero")
	}

	l, err := s.logs.UpdateEntries(ctx, userID, id, entries)
	if err != nil {
		return nil, workoutLogError(err)
	}
	return l, nil
}

func (s *WorkoutService) DeleteLog(ctx context.Context, userID, id int64) error {
	if err := s.logs.Delete(ctx, userID, id); err != nil {
		return workoutLogError(err)
	}
	return nil
}

// PreviousWeekLog finds the log written for the same weekday exactly seven
// days before date. It returns nil when there is none.
func (s *WorkoutService) PreviousWeekLog(ctx context.Context, userID int64, day string, date *civil.Date) (*workout.WorkoutLog, error) {
	d, err := plan.ParseWeekday(day)
	if err != nil {
		return nil, invalid(err.Error())
	}
	ref, err := s.logDate(date)
	if err != nil {
		return nil, err
	}

	l, err := s.logs.FindByDay(ctx, userID, ref.AddDays(-7), d.Short())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find previous week log: %w", err)
	}
	return l, nil
}

// logDate defaults to today in the configured zone.
func (s *WorkoutService) logDate(date *civil.Date) (civil.Date, error) {
	if date != nil {
		if !date.IsValid() {
			return civil.Date{}, invalid("date is not a valid calendar date")
		}
		return *date, nil
	}
	today, err := schedule.LocalDate(s.clock.Now(), s.timezone)
	if err != nil {
		return civil.Date{}, fmt.Errorf("failed to resolve today: %w", err)
	}
	return today, nil
}

func workoutLogError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrWorkoutLogNotFound
	}
	return err
}
