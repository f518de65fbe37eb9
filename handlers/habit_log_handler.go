package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"habitTrackerAPI/internal/types/habit"
	"habitTrackerAPI/services"
)

type HabitLogHandler struct {
	logService *services.HabitLogService
	logger     *zap.Logger
}

func NewHabitLogHandler(logService *services.HabitLogService, logger *zap.Logger) *HabitLogHandler {
	return &HabitLogHandler{logService: logService, logger: logger}
}

// CreateLog answers 201 once the log is stored, even if the habit could not
// be brought up to date. The response then carries a warning.
func (h *HabitLogHandler) CreateLog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var req habit.CreateLogRequest
	if !decodeBody(w, r, &req) {
		return
	}

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	result, err := h.logService.CreateLog(ctx, userID, key, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, result)
}

func (h *HabitLogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var taskID *int64
	if raw := r.URL.Query().Get("taskId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Query parameter 'taskId' must be a number")
			return
		}
		taskID = &parsed
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	logs, err := h.logService.ListLogs(ctx, userID, taskID, limit)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, logs)
}

func (h *HabitLogHandler) DeleteLog(w http.ResponseWriter, r *http.Request) {
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

	if err := h.logService.DeleteLog(ctx, userID, logID); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Log deleted successfully"})
}

// Calendar answers ?year=&month=, defaulting to the current month.
func (h *HabitLogHandler) Calendar(w http.ResponseWriter, r *http.Request) {
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

	year, ok := queryInt(w, r, "year")
	if !ok {
		return
	}
	month, ok := queryInt(w, r, "month")
	if !ok {
		return
	}

	cal, err := h.logService.Calendar(ctx, userID, taskID, year, month)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, cal)
}

func (h *HabitLogHandler) Stats(w http.ResponseWriter, r *http.Request) {
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

	st, err := h.logService.Stats(ctx, userID, taskID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, st)
}

func queryInt(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Query parameter '"+name+"' must be a number")
		return 0, false
	}
	return v, true
}
