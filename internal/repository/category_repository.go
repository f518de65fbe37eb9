package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/types/category"
)

type CategoryRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCategoryRepository(db *pgxpool.Pool, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{db: db, logger: logger}
}

func scanCategory(row pgx.Row) (*category.Category, error) {
	var c category.Category
	if err := row.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) List(ctx context.Context, userID int64) ([]category.Category, error) {
	rows, err := r.db.Query(ctx, `
	SELECT id, user_id, name, color, created_at
	FROM habit_categories
	WHERE user_id = $1
	ORDER BY name`, userID)
	if err != nil {
		r.logger.Error("failed to list categories", zap.Int64("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []category.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) Get(ctx context.Context, userID, id int64) (*category.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `
	SELECT id, user_id, name, color, created_at
	FROM habit_categories
	WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get category %d: %w", id, mapError(err))
	}
	return c, nil
}

func (r *CategoryRepository) Create(ctx context.Context, userID int64, req *category.CreateCategoryRequest) (*category.Category, error) {
	r.logger.Debug("creating category", zap.Int64("user_id", userID), zap.String("name", req.Name))

	c, err := scanCategory(r.db.QueryRow(ctx, `
	INSERT INTO habit_categories (user_id, name, color)
	VALUES ($1, $2, $3)
	RETURNING id, user_id, name, color, created_at`, userID, req.Name, req.Color))
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", mapError(err))
	}

	r.logger.Info("category created", zap.Int64("category_id", c.ID))
	return c, nil
}

func (r *CategoryRepository) Update(ctx context.Context, userID, id int64, req *category.UpdateCategoryRequest) (*category.Category, error) {
	c, err := scanCategory(r.db.QueryRow(ctx, `
	UPDATE habit_categories SET
		name = COALESCE($3, name),
		color = COALESCE($4, color)
	WHERE id = $1 AND user_id = $2
	RETURNING id, user_id, name, color, created_at`, id, userID, req.Name, req.Color))
	if err != nil {
		return nil, fmt.Errorf("failed to update category %d: %w", id, mapError(err))
	}

	r.logger.Info("category updated", zap.Int64("category_id", id))
	return c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, userID, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM habit_categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.logger.Error("failed to delete category", zap.Int64("category_id", id), zap.Error(err))
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.logger.Info("category deleted", zap.Int64("category_id", id))
	return nil
}
