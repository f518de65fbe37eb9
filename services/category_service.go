package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"habitTrackerAPI/internal/repository"
	"habitTrackerAPI/internal/types/category"
)

type CategoryService struct {
	categories CategoryStore
	users      UserStore
	logger     *zap.Logger
}

func NewCategoryService(categories CategoryStore, users UserStore, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, users: users, logger: logger}
}

func (s *CategoryService) ListCategories(ctx context.Context, userID int64) ([]category.Category, error) {
	categories, err := s.categories.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, userID int64, req *category.CreateCategoryRequest) (*category.Category, error) {
	if err := invalid(req.Validate()...); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, userError(err)
	}

	c, err := s.categories.Create(ctx, userID, req)
	if err != nil {
		return nil, categoryError(err)
	}
	return c, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, userID, id int64, req *category.UpdateCategoryRequest) (*category.Category, error) {
	if err := invalid(req.Validate()...); err != nil {
		return nil, err
	}

	c, err := s.categories.Update(ctx, userID, id, req)
	if err != nil {
		return nil, categoryError(err)
	}
	return c, nil
}

// DeleteCategory leaves the habits of the category uncategorised.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID, id int64) error {
	if err := s.categories.Delete(ctx, userID, id); err != nil {
		return categoryError(err)
	}
	return nil
}

func categoryError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrCategoryNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrCategoryExists
	}
	return err
}
