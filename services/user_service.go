package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"habitTrackerAPI/internal/repository"
	"habitTrackerAPI/internal/types/plan"
	"habitTrackerAPI/internal/types/user"
)

type UserService struct {
	users  UserStore
	logger *zap.Logger
}

func NewUserService(users UserStore, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) ListUsers(ctx context.Context) ([]user.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*user.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, userError(err)
	}
	return u, nil
}

func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	req.Normalize()
	if err := invalid(req.Validate()...); err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, req)
	if err != nil {
		return nil, userError(err)
	}
	return u, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, req *user.UpdateUserRequest) (*user.User, error) {
	req.Normalize()
	if err := invalid(req.Validate()...); err != nil {
		return nil, err
	}

	u, err := s.users.Update(ctx, id, req)
	if err != nil {
		return nil, userError(err)
	}
	return u, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return userError(err)
	}
	return nil
}

// GetPlan returns the plan for the given day key ("mon".."sun"). A day
// without a plan yields nil.
func (s *UserService) GetPlan(ctx context.Context, userID int64, dayKey string) (*plan.WorkoutPlan, error) {
	day, err := plan.ParseWeekday(dayKey)
	if err != nil {
		return nil, invalid(err.Error())
	}

	p, err := s.users.GetPlan(ctx, userID, day)
	if err != nil {
		return nil, userError(err)
	}
	return p, nil
}

func (s *UserService) SetPlan(ctx context.Context, userID int64, dayKey string, p *plan.WorkoutPlan) (*plan.WorkoutPlan, error) {
	day, err := plan.ParseWeekday(dayKey)
	if err != nil {
		return nil, invalid(err.Error())
	}
	if p == nil {
		return nil, invalid("plan is required")
	}
	if err := invalid(p.Validate()...); err != nil {
		return nil, err
	}

	if err := s.users.SetPlan(ctx, userID, day, p); err != nil {
		return nil, userError(err)
	}
	s.logger.Info("plan saved", zap.Int64("user_id", userID), zap.String("day", day.Key()), zap.Int("exercises", len(p.Exercises)))
	return p, nil
}

func (s *UserService) DeletePlan(ctx context.Context, userID int64, dayKey string) error {
	day, err := plan.ParseWeekday(dayKey)
	if err != nil {
		return invalid(err.Error())
	}
	if err := s.users.SetPlan(ctx, userID, day, nil); err != nil {
		return userError(err)
	}
	return nil
}

func userError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrEmailExists
	}
	return err
}
