package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"habitTrackerAPI/internal/types/category"
	"habitTrackerAPI/services"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
	logger          *zap.Logger
}

func NewCategoryHandler(categoryService *services.CategoryService, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, logger: logger}
}

func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	categories, err := h.categoryService.ListCategories(ctx, userID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, categories)
}

func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var req category.CreateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.categoryService.CreateCategory(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	categoryID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}

	var req category.UpdateCategoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	c, err := h.categoryService.UpdateCategory(ctx, userID, categoryID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	categoryID, ok := pathID(w, r, "categoryId")
	if !ok {
		return
	}

	if err := h.categoryService.DeleteCategory(ctx, userID, categoryID); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}
