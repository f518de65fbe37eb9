package handlers

import (
	"net/http"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/types/habit"
	"habitTrackerAPI/services"
)

type HabitHandler struct {
	habitService *services.HabitService
	logger       *zap.Logger
}

func NewHabitHandler(habitService *services.HabitService, logger *zap.Logger) *HabitHandler {
	return &HabitHandler{habitService: habitService, logger: logger}
}

// ListHabits returns the user's habits. A well-formed asOf narrows the list
// to habits due by that date; a malformed one is ignored.
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var asOf *civil.Date
	if raw := r.URL.Query().Get("asOf"); raw != "" {
		if d, err := civil.ParseDate(raw); err == nil {
			asOf = &d
		}
	}

	habits, err := h.habitService.ListHabits(ctx, userID, asOf)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, habits)
}

func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, "taskId")
	if !ok {
		return
	}

	task, err := h.habitService.GetHabit(ctx, userID, taskID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, task)
}

func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var req habit.CreateHabitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.habitService.CreateHabit(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, task)
}

func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, "taskId")
	if !ok {
		return
	}

	var req habit.UpdateHabitRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.habitService.UpdateHabit(ctx, userID, taskID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, task)
}

func (h *HabitHandler) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, "taskId")
	if !ok {
		return
	}

	if err := h.habitService.DeleteHabit(ctx, userID, taskID); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Habit deleted successfully"})
}

func (h *HabitHandler) SetTarget(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, "taskId")
	if !ok {
		return
	}

	var req habit.SetTargetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.habitService.SetTarget(ctx, userID, taskID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, task)
}

func (h *HabitHandler) TargetHistory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	taskID, ok := pathID(w, r, "taskId")
	if !ok {
		return
	}

	entries, err := h.habitService.TargetHistory(ctx, userID, taskID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, entries)
}
