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

	"habitTrackerAPI/internal/types/workout"
)

type WorkoutLogRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewWorkoutLogRepository(db *pgxpool.Pool, logger *zap.Logger) *WorkoutLogRepository {
	return &WorkoutLogRepository{db: db, logger: logger}
}

const workoutLogColumns = `id, user_id, date, day_name, plan_name, entries, created_at`

func scanWorkoutLog(row pgx.Row) (*workout.WorkoutLog, error) {
	var (
		l       workout.WorkoutLog
		date    pgtype.Date
		entries []byte
	)
	if err := row.Scan(&l.ID, &l.UserID, &date, &l.DayName, &l.PlanName, &entries, &l.CreatedAt); err != nil {
		return nil, err
	}
	l.Date = dateOf(date)
	l.Entries = []workout.ExerciseEntry{}
	if len(entries) > 0 {
		if err := json.Unmarshal(entries, &l.Entries); err != nil {
			return nil, fmt.Errorf("failed to decode workout entries: %w", err)
		}
	}
	return &l, nil
}

func (r *WorkoutLogRepository) Create(ctx context.Context, l *workout.WorkoutLog) (*workout.WorkoutLog, error) {
	r.logger.Debug("creating workout log", zap.Int64("user_id", l.UserID), zap.String("date", l.Date.String()))

	entries, err := jsonArg(l.Entries)
	if err != nil {
		return nil, err
	}

	saved, err := scanWorkoutLog(r.db.QueryRow(ctx, `
	INSERT INTO workout_logs (user_id, date, day_name, plan_name, entries)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING `+workoutLogColumns,
		l.UserID, dateArg(l.Date), l.DayName, l.PlanName, entries,
	))
	if err != nil {
		r.logger.Error("failed to create workout log", zap.Int64("user_id", l.UserID), zap.Error(err))
		return nil, fmt.Errorf("failed to create workout log: %w", mapError(err))
	}

	r.logger.Info("workout log created", zap.Int64("log_id", saved.ID), zap.Int("sets", workout.CountSets(saved.Entries)))
	return saved, nil
}

func (r *WorkoutLogRepository) List(ctx context.Context, userID int64, filter workout.LogFilter) ([]workout.WorkoutLog, error) {
	r.logger.Debug("listing workout logs", zap.Int64("user_id", userID))

	var date any
	if filter.Date != nil {
		date = dateArg(*filter.Date)
	}
	var dayName any
	if filter.DayName != "" {
		dayName = filter.DayName
	}

	rows, err := r.db.Query(ctx, `
	SELECT `+workoutLogColumns+`
	FROM workout_logs
	WHERE user_id = $1
	  AND ($2::date IS NULL OR date = $2::date)
	  AND ($3::text IS NULL OR day_name = $3::text)
	ORDER BY date DESC, created_at DESC`, userID, date, dayName)
	if err != nil {
		r.logger.Error("failed to list workout logs", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list workout logs: %w", err)
	}
	defer rows.Close()

	logs := []workout.WorkoutLog{}
	for rows.Next() {
		l, err := scanWorkoutLog(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout log: %w", err)
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

func (r *WorkoutLogRepository) Get(ctx context.Context, userID, id int64) (*workout.WorkoutLog, error) {
	l, err := scanWorkoutLog(r.db.QueryRow(ctx, `
	SELECT `+workoutLogColumns+` FROM workout_logs WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get workout log %d: %w", id, mapError(err))
	}
	return l, nil
}

// FindByDay returns the most recent log the user wrote for date under dayName.
func (r *WorkoutLogRepository) FindByDay(ctx context.Context, userID int64, date civil.Date, dayName string) (*workout.WorkoutLog, error) {
	l, err := scanWorkoutLog(r.db.QueryRow(ctx, `
	SELECT `+workoutLogColumns+`
	FROM workout_logs
	WHERE user_id = $1 AND date = $2 AND day_name = $3
	ORDER BY created_at DESC
	LIMIT 1`, userID, dateArg(date), dayName))
	if err != nil {
		return nil, fmt.Errorf("failed to find workout log for %s: %w", date, mapError(err))
	}
	return l, nil
}

func (r *WorkoutLogRepository) UpdateEntries(ctx context.Context, userID, id int64, entries []workout.ExerciseEntry) (*workout.WorkoutLog, error) {
	r.logger.Debug("updating workout log", zap.Int64("log_id", id))

	data, err := jsonArg(entries)
	if err != nil {
		return nil, err
	}

	l, err := scanWorkoutLog(r.db.QueryRow(ctx, `
	UPDATE workout_logs SET entries = $3
	WHERE id = $1 AND user_id = $2
	RETURNING `+workoutLogColumns, id, userID, data))
	if err != nil {
		return nil, fmt.Errorf("failed to update workout log %d: %w", id, mapError(err))
	}

	r.logger.Info("workout log updated", zap.Int64("log_id", id))
	return l, nil
}

func (r *WorkoutLogRepository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM workout_logs WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("failed to delete workout log", zap.Int64("log_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete workout log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("workout log deleted", zap.Int64("log_id", id))
	return nil
}
