// Package testdb provides a migrated PostgreSQL pool for integration tests.
package testdb

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/db"
)

// Setup connects to TEST_DATABASE_URL and applies migrations. Tests are
// skipped when the variable is not set. Every table is emptied before the
// test runs and the pool is closed when it ends.
func Setup(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping database test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	require.NoError(t, err, "failed to connect to test database")
	require.NoError(t, pool.Ping(ctx), "failed to ping test database")

	require.NoError(t, db.Migrate(ctx, pool, zap.NewNop()))
	Truncate(t, pool)

	t.Cleanup(pool.Close)
	return pool
}

func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE task_targets_history, task_logs, tasks, habit_categories, workout_logs, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err, "failed to truncate test tables")
}
