package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/types/plan"
	"habitTrackerAPI/internal/types/user"
)

type UserRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewUserRepository(db *pgxpool.Pool, logger *zap.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

type planStatements struct {
	get string
	set string
}

// planColumns maps each weekday to the statements touching its plan column.
var planColumns = map[plan.Weekday]planStatements{
	plan.Monday:    {get: `SELECT mon_plan FROM users WHERE id = $1`, set: `UPDATE users SET mon_plan = $2 WHERE id = $1`},
	plan.Tuesday:   {get: `SELECT tue_plan FROM users WHERE id = $1`, set: `UPDATE users SET tue_plan = $2 WHERE id = $1`},
	plan.Wednesday: {get: `SELECT wed_plan FROM users WHERE id = $1`, set: `UPDATE users SET wed_plan = $2 WHERE id = $1`},
	plan.Thursday:  {get: `SELECT thu_plan FROM users WHERE id = $1`, set: `UPDATE users SET thu_plan = $2 WHERE id = $1`},
	plan.Friday:    {get: `SELECT fri_plan FROM users WHERE id = $1`, set: `UPDATE users SET fri_plan = $2 WHERE id = $1`},
	plan.Saturday:  {get: `SELECT sat_plan FROM users WHERE id = $1`, set: `UPDATE users SET sat_plan = $2 WHERE id = $1`},
	plan.Sunday:    {get: `SELECT sun_plan FROM users WHERE id = $1`, set: `UPDATE users SET sun_plan = $2 WHERE id = $1`},
}

const userColumns = `id, name, email, mon_plan, tue_plan, wed_plan, thu_plan, fri_plan, sat_plan, sun_plan, created_at`

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		u     user.User
		plans [7][]byte
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email,
		&plans[0], &plans[1], &plans[2], &plans[3], &plans[4], &plans[5], &plans[6],
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	for i, day := range plan.Weekdays {
		p, err := decodePlan(plans[i])
		if err != nil {
			return nil, fmt.Errorf("user %d %s plan: %w", u.ID, day.Key(), err)
		}
		*u.PlanSlot(day) = p
	}
	return &u, nil
}

func decodePlan(data []byte) (*plan.WorkoutPlan, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var p plan.WorkoutPlan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode plan: %w", err)
	}
	return &p, nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	r.logger.Debug("listing users")

	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		r.logger.Error("failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	r.logger.Debug("getting user", zap.Int64("user_id", id))

	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, mapError(err))
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	r.logger.Debug("creating user", zap.String("email", req.Email))

	u, err := scanUser(r.db.QueryRow(ctx, `
	INSERT INTO users (name, email)
	VALUES ($1, $2)
	RETURNING `+userColumns, req.Name, req.Email))
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrConflict) {
			r.logger.Error("failed to create user", zap.Error(err))
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	r.logger.Info("user created", zap.Int64("user_id", u.ID))
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, id int64, req *user.UpdateUserRequest) (*user.User, error) {
	r.logger.Debug("updating user", zap.Int64("user_id", id))

	u, err := scanUser(r.db.QueryRow(ctx, `
	UPDATE users SET
		name = COALESCE($2, name),
		email = COALESCE($3, email)
	WHERE id = $1
	RETURNING `+userColumns, id, req.Name, req.Email))
	if err != nil {
		err = mapError(err)
		if !errors.Is(err, ErrConflict) && !errors.Is(err, ErrNotFound) {
			r.logger.Error("failed to update user", zap.Int64("user_id", id), zap.Error(err))
		}
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}

	r.logger.Info("user updated", zap.Int64("user_id", id))
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	r.logger.Debug("deleting user", zap.Int64("user_id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete user", zap.Int64("user_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("user deleted", zap.Int64("user_id", id))
	return nil
}

// GetPlan returns the user's plan for day, or nil when the day has none.
// ErrNotFound means the user does not exist.
func (r *UserRepository) GetPlan(ctx context.Context, userID int64, day plan.Weekday) (*plan.WorkoutPlan, error) {
	stmts, ok := planColumns[day]
	if !ok {
		return nil, fmt.Errorf("invalid weekday %d", int(day))
	}

	var data []byte
	if err := r.db.QueryRow(ctx, stmts.get, userID).Scan(&data); err != nil {
		return nil, fmt.Errorf("failed to get %s plan: %w", day.Key(), mapError(err))
	}
	return decodePlan(data)
}

// SetPlan stores p as the user's plan for day. A nil plan clears the day.
func (r *UserRepository) SetPlan(ctx context.Context, userID int64, day plan.Weekday, p *plan.WorkoutPlan) error {
	stmts, ok := planColumns[day]
	if !ok {
		return fmt.Errorf("invalid weekday %d", int(day))
	}

	var arg any
	if p != nil {
		data, err := jsonArg(p)
		if err != nil {
			return err
		}
		arg = data
	}

	tag, err := r.db.Exec(ctx, stmts.set, userID, arg)
	if err != nil {
		r.logger.Error("failed to save plan", zap.Int64("user_id", userID), zap.String("day", day.Key()), zap.Error(err))
		return fmt.Errorf("failed to save %s plan: %w", day.Key(), err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("plan saved", zap.Int64("user_id", userID), zap.String("day", day.Key()), zap.Bool("cleared", p == nil))
	return nil
}
