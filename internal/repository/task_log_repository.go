package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/types/habit"
)

type TaskLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskLogRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskLogRepository {
	return &TaskLogRepository{db: db, logger: logger}
}

const taskLogColumns = `
	id, user_id, task_id, habit_name, status, quantity, unit, duration_seconds,
	occurred_at, tz, local_date, source, note, metadata, created_at`

func scanTaskLog(row pgx.Row) (*habit.TaskLog, error) {
	var (
		l         habit.TaskLog
		status    string
		source    string
		localDate pgtype.Date
		metadata  []byte
	)
	err := row.Scan(
		&l.ID,
		&l.UserID,
		&l.TaskID,
		&l.HabitName,
		&status,
		&l.Quantity,
		&l.Unit,
		&l.DurationSeconds,
		&l.OccurredAt,
		&l.TZ,
		&localDate,
		&source,
		&l.Note,
		&metadata,
		&l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	l.Status = habit.LogStatus(status)
	l.Source = habit.LogSource(source)
	l.LocalDate = dateOf(localDate)
	l.Metadata = map[string]any{}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &l.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode log metadata: %w", err)
		}
	}
	return &l, nil
}

// Upsert stores l. A second log for the same habit on the same local date
// replaces the first one.
func (r *TaskLogRepository) Upsert(ctx context.Context, l *habit.TaskLog) (*habit.TaskLog, error) {
	r.logger.Debug("recording habit log",
		zap.Int64("habit_id", l.TaskID),
		zap.String("status", string(l.Status)),
		zap.String("local_date", l.LocalDate.String()),
	)

	metadata, err := jsonArg(l.Metadata)
	if err != nil {
		return nil, err
	}

	query := `
	INSERT INTO task_logs (
		user_id, task_id, habit_name, status, quantity, unit, duration_seconds,
		occurred_at, tz, local_date, source, note, metadata
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	ON CONFLICT (task_id, local_date) DO UPDATE SET
		habit_name = EXCLUDED.habit_name,
		status = EXCLUDED.status,
		quantity = EXCLUDED.quantity,
		unit = EXCLUDED.unit,
		duration_seconds = EXCLUDED.duration_seconds,
		occurred_at = EXCLUDED.occurred_at,
		tz = EXCLUDED.tz,
		source = EXCLUDED.source,
		note = EXCLUDED.note,
		metadata = EXCLUDED.metadata
	RETURNING` + taskLogColumns

	saved, err := scanTaskLog(r.db.QueryRow(ctx, query,
		l.UserID,
		l.TaskID,
		l.HabitName,
		string(l.Status),
		l.Quantity,
		l.Unit,
		l.DurationSeconds,
		l.OccurredAt,
		l.TZ,
		dateArg(l.LocalDate),
		string(l.Source),
		l.Note,
		metadata,
	))
	if err != nil {
		r.logger.Error("failed to record habit log", zap.Int64("habit_id", l.TaskID), zap.Error(err))
		return nil, fmt.Errorf("failed to record habit log: %w", mapError(err))
	}

	r.logger.Info("habit log recorded", zap.Int64("log_id", saved.ID), zap.Int64("habit_id", saved.TaskID))
	return saved, nil
}

func (r *TaskLogRepository) List(ctx context.Context, userID int64, filter habit.LogFilter) ([]habit.TaskLog, error) {
	r.logger.Debug("listing habit logs", zap.Int64("user_id", userID), zap.Int("limit", filter.Limit))

	query := `SELECT` + taskLogColumns + `
	FROM task_logs
	WHERE user_id = $1
	  AND ($2::bigint IS NULL OR task_id = $2::bigint)
	ORDER BY occurred_at DESC, id DESC
	LIMIT $3`

	rows, err := r.db.Query(ctx, query, userID, filter.TaskID, filter.Limit)
	if err != nil {
		r.logger.Error("failed to list habit logs", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list habit logs: %w", err)
	}
	defer rows.Close()

	logs := []habit.TaskLog{}
	for rows.Next() {
		l, err := scanTaskLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit log: %w", err)
		}
		logs = append(logs, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habit logs: %w", err)
	}
	return logs, nil
}

// Days returns one entry per local date for the habit, oldest first. Nil
// bounds are open.
func (r *TaskLogRepository) Days(ctx context.Context, taskID int64, from, to *civil.Date) ([]habit.LogDay, error) {
	rows, err := r.db.Query(ctx, `
	SELECT local_date, status
	FROM task_logs
	WHERE task_id = $1
	  AND ($2::date IS NULL OR local_date >= $2::date)
	  AND ($3::date IS NULL OR local_date <= $3::date)
	ORDER BY local_date`, taskID, nullableDateArg(from), nullableDateArg(to))
	if err != nil {
		r.logger.Error("failed to list habit days", zap.Int64("habit_id", taskID), zap.Error(err))
		return nil, fmt.Errorf("failed to list habit days: %w", err)
	}
	defer rows.Close()

	days := []habit.LogDay{}
	for rows.Next() {
		var (
			d      pgtype.Date
			status string
		)
		if err := rows.Scan(&d, &status); err != nil {
			return nil, fmt.Errorf("failed to scan habit day: %w", err)
		}
		days = append(days, habit.LogDay{LocalDate: dateOf(d), Status: habit.LogStatus(status)})
	}
	return days, rows.Err()
}

func (r *TaskLogRepository) Delete(ctx context.Context, userID, id int64) error {
	r.logger.Debug("deleting habit log", zap.Int64("log_id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM task_logs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("failed to delete habit log", zap.Int64("log_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete habit log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("habit log deleted", zap.Int64("log_id", id))
	return nil
}
