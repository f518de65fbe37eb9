package services

import (
	"context"

	"cloud.google.com/go/civil"

	"habitTrackerAPI/internal/types/category"
	"habitTrackerAPI/internal/types/habit"
	"habitTrackerAPI/internal/types/plan"
	"habitTrackerAPI/internal/types/user"
	"habitTrackerAPI/internal/types/workout"
)

type HabitStore interface {
	Create(ctx context.Context, h *habit.HabitTask) (*habit.HabitTask, error)
	GetByID(ctx context.Context, id int64) (*habit.HabitTask, error)
	ListByUser(ctx context.Context, userID int64, asOf *civil.Date) ([]habit.HabitTask, error)
	Modify(ctx context.Context, id int64, fn func(current habit.HabitTask) (habit.HabitTask, *habit.TargetHistoryEntry, error)) (*habit.HabitTask, error)
	Delete(ctx context.Context, userID, id int64) error
	ListTargetHistory(ctx context.Context, taskID int64) ([]habit.TargetHistoryEntry, error)
	ListDue(ctx context.Context, asOf civil.Date) ([]habit.HabitTask, error)
}

type TaskLogStore interface {
	Upsert(ctx context.Context, l *habit.TaskLog) (*habit.TaskLog, error)
	List(ctx context.Context, userID int64, filter habit.LogFilter) ([]habit.TaskLog, error)
	Delete(ctx context.Context, userID, id int64) error
	Days(ctx context.Context, taskID int64, from, to *civil.Date) ([]habit.LogDay, error)
}

type UserStore interface {
	List(ctx context.Context) ([]user.User, error)
	GetByID(ctx context.Context, id int64) (*user.User, error)
	Create(ctx context.Context, req *user.CreateUserRequest) (*user.User, error)
	Update(ctx context.Context, id int64, req *user.UpdateUserRequest) (*user.User, error)
	Delete(ctx context.Context, id int64) error
	GetPlan(ctx context.Context, userID int64, day plan.Weekday) (*plan.WorkoutPlan, error)
	SetPlan(ctx context.Context, userID int64, day plan.Weekday, p *plan.WorkoutPlan) error
}

type WorkoutLogStore interface {
	Create(ctx context.Context, l *workout.WorkoutLog) (*workout.WorkoutLog, error)
	List(ctx context.Context, userID int64, filter workout.LogFilter) ([]workout.WorkoutLog, error)
	Get(ctx context.Context, userID, id int64) (*workout.WorkoutLog, error)
	FindByDay(ctx context.Context, userID int64, date civil.Date, dayName string) (*workout.WorkoutLog, error)
	UpdateEntries(ctx context.Context, userID, id int64, entries []workout.ExerciseEntry) (*workout.WorkoutLog, error)
	Delete(ctx context.Context, userID, id int64) error
}

type CategoryStore interface {
	List(ctx context.Context, userID int64) ([]category.Category, error)
	Get(ctx context.Context, userID, id int64) (*category.Category, error)
	Create(ctx context.Context, userID int64, req *category.CreateCategoryRequest) (*category.Category, error)
	Update(ctx context.Context, userID, id int64, req *category.UpdateCategoryRequest) (*category.Category, error)
	Delete(ctx context.Context, userID, id int64) error
}

// Deduper guards against a client submitting the same request twice.
// Release forgets a key whose request did not complete, so it can be retried.
type Deduper interface {
	AcquireOnce(ctx context.Context, scope, key string) bool
	Release(ctx context.Context, scope, key string)
}
