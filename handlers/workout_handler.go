package handlers

import (
	"net/http"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/types/workout"
	"habitTrackerAPI/services"
)

type WorkoutHandler struct {
	workoutService *services.WorkoutService
	logger         *zap.Logger
}

func NewWorkoutHandler(workoutService *services.WorkoutService, logger *zap.Logger) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, logger: logger}
}

func queryDate(w http.ResponseWriter, r *http.Request) (*civil.Date, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return nil, true
	}
	d, err := civil.ParseDate(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'date' must be YYYY-MM-DD")
		return nil, false
	}
	return &d, true
}

func (h *WorkoutHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var req workout.CreateWorkoutLogRequest
	if !decodeBody(w, r, &req) {
		return
	}

	l, err := h.workoutService.CreateLog(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, l)
}

func (h *WorkoutHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	date, ok := queryDate(w, r)
	if !ok {
		return
	}

	logs, err := h.workoutService.ListLogs(ctx, userID, date, r.URL.Query().Get("day"))
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, logs)
}

// PreviousWeekLog responds with null when nothing was logged a week earlier.
func (h *WorkoutHandler) PreviousWeekLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	day := r.URL.Query().Get("day")
	if day == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter 'day' is required")
		return
	}
	date, ok := queryDate(w, r)
	if !ok {
		return
	}

	l, err := h.workoutService.PreviousWeekLog(ctx, userID, day, date)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, l)
}

func (h *WorkoutHandler) GetLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	logID, ok := pathID(w, r, "logId")
	if !ok {
		return
	}

	l, err := h.workoutService.GetLog(ctx, userID, logID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, l)
}

func (h *WorkoutHandler) UpdateLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	logID, ok := pathID(w, r, "logId")
	if !ok {
		return
	}

	var req workout.UpdateWorkoutLogRequest
	if !decodeBody(w, r, &req) {
		return
	}

	l, err := h.workoutService.UpdateLog(ctx, userID, logID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, l)
}

func (h *WorkoutHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}
	logID, ok := pathID(w, r, "logId")
	if !ok {
		return
	}

	if err := h.workoutService.DeleteLog(ctx, userID, logID); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Workout log deleted successfully"})
}
