package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/types/habit"
)

type HabitRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewHabitRepository(db *pgxpool.Pool, logger *zap.Logger) *HabitRepository {
	return &HabitRepository{db: db, logger: logger}
}

const habitColumns = `
	id, user_id, task_name, task_description, start_date, frequency_of_task,
	routine, display_order, kind, category_id, last_execution_date, next_execution_date,
	target_value, target_unit, current_progress, target_achieved, target_achieved_at,
	target_set_at, created_at, updated_at, archived_at`

func scanHabit(row pgx.Row) (*habit.HabitTask, error) {
	var (
		h          habit.HabitTask
		start      pgtype.Date
		last, next pgtype.Date
		frequency  string
		routine    *string
		kind       *string
	)
	err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.TaskName,
		&h.TaskDescription,
		&start,
		&frequency,
		&routine,
		&h.DisplayOrder,
		&kind,
		&h.CategoryID,
		&last,
		&next,
		&h.TargetValue,
		&h.TargetUnit,
		&h.CurrentProgress,
		&h.TargetAchieved,
		&h.TargetAchievedAt,
		&h.TargetSetAt,
		&h.CreatedAt,
		&h.UpdatedAt,
		&h.ArchivedAt,
	)
	if err != nil {
		return nil, err
	}
	h.StartDate = dateOf(start)
	h.FrequencyOfTask = habit.Frequency(frequency)
	h.Routine = typedPtr[habit.Routine](routine)
	h.Kind = typedPtr[habit.Kind](kind)
	h.LastExecutionDate = nullableDateOf(last)
	h.NextExecutionDate = nullableDateOf(next)
	return &h, nil
}

func (r *HabitRepository) Create(ctx context.Context, h *habit.HabitTask) (*habit.HabitTask, error) {
	r.logger.Debug("creating habit", zap.Int64("user_id", h.UserID), zap.String("task_name", h.TaskName))

	next := h.NextExecutionDate
	if next == nil {
		next = &h.StartDate
	}

	query := `
	INSERT INTO tasks (
		user_id, task_name, task_description, start_date, frequency_of_task, routine,
		display_order, kind, category_id, next_execution_date, target_value, target_unit,
		target_set_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	RETURNING` + habitColumns

	created, err := scanHabit(r.db.QueryRow(ctx, query,
		h.UserID,
		h.TaskName,
		h.TaskDescription,
		dateArg(h.StartDate),
		string(h.FrequencyOfTask),
		stringPtr(h.Routine),
		h.DisplayOrder,
		stringPtr(h.Kind),
		h.CategoryID,
		nullableDateArg(next),
		h.TargetValue,
		h.TargetUnit,
		h.TargetSetAt,
	))
	if err != nil {
		r.logger.Error("failed to create habit", zap.Int64("user_id", h.UserID), zap.Error(err))
		return nil, fmt.Errorf("failed to create habit: %w", mapError(err))
	}

	r.logger.Info("habit created", zap.Int64("habit_id", created.ID), zap.Int64("user_id", created.UserID))
	return created, nil
}

func (r *HabitRepository) GetByID(ctx context.Context, id int64) (*habit.HabitTask, error) {
	r.logger.Debug("getting habit", zap.Int64("habit_id", id))

	h, err := scanHabit(r.db.QueryRow(ctx, `SELECT`+habitColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrNotFound) {
			r.logger.Error("failed to get habit", zap.Int64("habit_id", id), zap.Error(err))
		}
		return nil, fmt.Errorf("failed to get habit %d: %w", id, err)
	}
	return h, nil
}

// ListByUser returns the user's active habits in display order. With asOf
// set only habits due on or before that date are returned.
func (r *HabitRepository) ListByUser(ctx context.Context, userID int64, asOf *civil.Date) ([]habit.HabitTask, error) {
	r.logger.Debug("listing habits", zap.Int64("user_id", userID), zap.Bool("due_only", asOf != nil))

	query := `SELECT` + habitColumns + `
	FROM tasks
	WHERE user_id = $1
	  AND archived_at IS NULL
	  AND ($2::date IS NULL OR COALESCE(next_execution_date, start_date) <= $2::date)
	ORDER BY COALESCE(display_order, 999999), id`

	rows, err := r.db.Query(ctx, query, userID, nullableDateArg(asOf))
	if err != nil {
		r.logger.Error("failed to list habits", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list habits: %w", err)
	}
	defer rows.Close()

	habits := []habit.HabitTask{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}
	return habits, nil
}

// ListDue returns every active habit, across all users, due on or before
// asOf. Results are grouped by user.
func (r *HabitRepository) ListDue(ctx context.Context, asOf civil.Date) ([]habit.HabitTask, error) {
	query := `SELECT` + habitColumns + `
	FROM tasks
	WHERE archived_at IS NULL
	  AND COALESCE(next_execution_date, start_date) <= $1
	ORDER BY user_id, COALESCE(display_order, 999999), id`

	rows, err := r.db.Query(ctx, query, dateArg(asOf))
	if err != nil {
		r.logger.Error("failed to list due habits", zap.String("as_of", asOf.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to list due habits: %w", err)
	}
	defer rows.Close()

	habits := []habit.HabitTask{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}
		habits = append(habits, *h)
	}
	return habits, rows.Err()
}

// Modify loads habit id under a row lock and passes it to fn. The habit fn
// returns is written back, and a non-nil history entry is inserted in the
// same transaction. An error from fn rolls everything back and is returned
// unchanged.
func (r *HabitRepository) Modify(ctx context.Context, id int64, fn func(current habit.HabitTask) (habit.HabitTask, *habit.TargetHistoryEntry, error)) (*habit.HabitTask, error) {
	r.logger.Debug("modifying habit", zap.Int64("habit_id", id))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	current, err := scanHabit(tx.QueryRow(ctx, `SELECT`+habitColumns+` FROM tasks WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to lock habit %d: %w", id, mapError(err))
	}

	updated, entry, err := fn(*current)
	if err != nil {
		return nil, err
	}

	if entry != nil {
		_, err := tx.Exec(ctx, `
		INSERT INTO task_targets_history (task_id, target_value, target_unit, started_at, achieved_at, final_progress)
		VALUES ($1, $2, $3, $4, $5, $6)`,
			id, entry.TargetValue, entry.TargetUnit, entry.StartedAt, entry.AchievedAt, entry.FinalProgress,
		)
		if err != nil {
			r.logger.Error("failed to archive target", zap.Int64("habit_id", id), zap.Error(err))
			return nil, fmt.Errorf("failed to archive target: %w", err)
		}
	}

	query := `
	UPDATE tasks SET
		task_name = $2,
		task_description = $3,
		start_date = $4,
		frequency_of_task = $5,
		routine = $6,
		display_order = $7,
		kind = $8,
		category_id = $9,
		last_execution_date = $10,
		next_execution_date = $11,
		target_value = $12,
		target_unit = $13,
		current_progress = $14,
		target_achieved = $15,
		target_achieved_at = $16,
		target_set_at = $17,
		archived_at = $18,
		updated_at = $19
	WHERE id = $1
	RETURNING` + habitColumns

	saved, err := scanHabit(tx.QueryRow(ctx, query,
		id,
		updated.TaskName,
		updated.TaskDescription,
		dateArg(updated.StartDate),
		string(updated.FrequencyOfTask),
		stringPtr(updated.Routine),
		updated.DisplayOrder,
		stringPtr(updated.Kind),
		updated.CategoryID,
		nullableDateArg(updated.LastExecutionDate),
		nullableDateArg(updated.NextExecutionDate),
		updated.TargetValue,
		updated.TargetUnit,
		updated.CurrentProgress,
		updated.TargetAchieved,
		updated.TargetAchievedAt,
		updated.TargetSetAt,
		updated.ArchivedAt,
		time.Now().UTC(),
	))
	if err != nil {
		r.logger.Error("failed to update habit", zap.Int64("habit_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update habit %d: %w", id, mapError(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit habit update: %w", err)
	}

	r.logger.Info("habit updated", zap.Int64("habit_id", id), zap.Bool("target_archived", entry != nil))
	return saved, nil
}

func (r *HabitRepository) Delete(ctx context.Context, userID, id int64) error {
	r.logger.Debug("deleting habit", zap.Int64("habit_id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("failed to delete habit", zap.Int64("habit_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete habit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("habit deleted", zap.Int64("habit_id", id))
	return nil
}

func (r *HabitRepository) ListTargetHistory(ctx context.Context, taskID int64) ([]habit.TargetHistoryEntry, error) {
	r.logger.Debug("listing target history", zap.Int64("habit_id", taskID))

	rows, err := r.db.Query(ctx, `
	SELECT id, task_id, target_value, target_unit, started_at, achieved_at, final_progress
	FROM task_targets_history
	WHERE task_id = $1
	ORDER BY archived_at DESC, id DESC`, taskID)
	if err != nil {
		r.logger.Error("failed to list target history", zap.Int64("habit_id", taskID), zap.Error(err))
		return nil, fmt.Errorf("failed to list target history: %w", err)
	}
	defer rows.Close()

	entries := []habit.TargetHistoryEntry{}
	for rows.Next() {
		var e habit.TargetHistoryEntry
		if err := rows.Scan(&e.ID, &e.TaskID, &e.TargetValue, &e.TargetUnit, &e.StartedAt, &e.AchievedAt, &e.FinalProgress); err != nil {
			return nil, fmt.Errorf("failed to scan target history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
