package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type migration struct {
	version     int
	description string
	sql         string
}

var migrations = []migration{
	{
		version:     1,
		description: "users, weekly plans and workout logs",
		sql: `
CREATE TABLE IF NOT EXISTS users (
	id         BIGSERIAL PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL UNIQUE,
	mon_plan   JSONB,
	tue_plan   JSONB,
	wed_plan   JSONB,
	thu_plan   JSONB,
	fri_plan   JSONB,
	sat_plan   JSONB,
	sun_plan   JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS workout_logs (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	date       DATE NOT NULL,
	day_name   TEXT NOT NULL,
	plan_name  TEXT NOT NULL DEFAULT '',
	entries    JSONB NOT NULL DEFAULT '[]',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_workout_logs_user_date ON workout_logs(user_id, date DESC);
`,
	},
	{
		version:     2,
		description: "habit categories, tasks and task logs",
		sql: `
CREATE TABLE IF NOT EXISTS habit_categories (
	id         BIGSERIAL PRIMARY KEY,
	user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name       TEXT NOT NULL,
	color      TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, name)
);

CREATE TABLE IF NOT EXISTS tasks (
	id                  BIGSERIAL PRIMARY KEY,
	user_id             BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	category_id         BIGINT REFERENCES habit_categories(id) ON DELETE SET NULL,
	task_name           TEXT NOT NULL,
	task_description    TEXT,
	start_date          DATE NOT NULL,
	frequency_of_task   TEXT NOT NULL,
	routine             TEXT CHECK (routine IN ('anytime', 'morning', 'afternoon', 'evening')),
	display_order       INTEGER,
	kind                TEXT CHECK (kind IN ('binary', 'quantity', 'timer')),
	last_execution_date DATE,
	next_execution_date DATE,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	archived_at         TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_tasks_user_due ON tasks(user_id, (COALESCE(next_execution_date, start_date))) WHERE archived_at IS NULL;

CREATE TABLE IF NOT EXISTS task_logs (
	id               BIGSERIAL PRIMARY KEY,
	user_id          BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	task_id          BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	habit_name       TEXT,
	status           TEXT NOT NULL CHECK (status IN ('completed', 'skipped', 'failed')),
	quantity         NUMERIC,
	unit             TEXT,
	duration_seconds INTEGER,
	occurred_at      TIMESTAMPTZ NOT NULL,
	tz               TEXT NOT NULL,
	local_date       DATE NOT NULL,
	source           TEXT NOT NULL CHECK (source IN ('manual', 'reminder', 'import', 'automation')),
	note             TEXT,
	metadata         JSONB NOT NULL DEFAULT '{}',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (task_id, local_date)
);

CREATE INDEX IF NOT EXISTS idx_task_logs_user_occurred ON task_logs(user_id, occurred_at DESC);
`,
	},
	{
		version:     3,
		description: "habit targets and target history",
		sql: `
ALTER TABLE tasks
	ADD COLUMN IF NOT EXISTS target_value       NUMERIC CHECK (target_value > 0),
	ADD COLUMN IF NOT EXISTS target_unit        TEXT,
	ADD COLUMN IF NOT EXISTS current_progress   NUMERIC NOT NULL DEFAULT 0 CHECK (current_progress >= 0),
	ADD COLUMN IF NOT EXISTS target_achieved    BOOLEAN NOT NULL DEFAULT FALSE,
	ADD COLUMN IF NOT EXISTS target_achieved_at TIMESTAMPTZ,
	ADD COLUMN IF NOT EXISTS target_set_at      TIMESTAMPTZ;

ALTER TABLE tasks DROP CONSTRAINT IF EXISTS tasks_target_unit_required;
ALTER TABLE tasks ADD CONSTRAINT tasks_target_unit_required
	CHECK (target_value IS NULL OR target_unit IS NOT NULL);

CREATE TABLE IF NOT EXISTS task_targets_history (
	id             BIGSERIAL PRIMARY KEY,
	task_id        BIGINT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
	target_value   NUMERIC NOT NULL,
	target_unit    TEXT NOT NULL,
	started_at     TIMESTAMPTZ NOT NULL,
	achieved_at    TIMESTAMPTZ,
	final_progress NUMERIC NOT NULL,
	archived_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_task_targets_history_task ON task_targets_history(task_id, archived_at DESC);
`,
	},
}

// Migrate applies pending migrations in order, each in its own transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	if _, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INTEGER PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var current int
	if err := pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_migrations`).Scan(&current); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := apply(ctx, pool, m); err != nil {
			return err
		}
		logger.Info("Applied migration", zap.Int("version", m.version), zap.String("description", m.description))
	}
	return nil
}

func apply(ctx context.Context, pool *pgxpool.Pool, m migration) error {
	return pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, m.sql); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
		return nil
	})
}
