package services

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrHabitNotFound      = errors.New("habit not found")
	ErrLogNotFound        = errors.New("log not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrWorkoutLogNotFound = errors.New("workout log not found")
	ErrPlanNotFound       = errors.New("no plan found")
	ErrForbidden          = errors.New("habit belongs to another user")
	ErrEmailExists        = errors.New("email already exists")
	ErrCategoryExists     = errors.New("category name already exists")
	ErrDuplicateRequest   = errors.New("request with this idempotency key was already processed")
)

// ValidationError reports request input that was rejected before any write.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}

func invalid(problems ...string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
