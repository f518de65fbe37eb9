package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/types/plan"
	"habitTrackerAPI/internal/types/user"
	"habitTrackerAPI/services"
)

type UserHandler struct {
	userService *services.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *services.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	users, err := h.userService.ListUsers(ctx)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, users)
}

func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	u, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	var req user.CreateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.userService.CreateUser(ctx, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var req user.UpdateUserRequest
	if !decodeBody(w, r, &req) {
		return
	}

	u, err := h.userService.UpdateUser(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(ctx, userID); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

func (h *UserHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	p, err := h.userService.GetPlan(ctx, userID, mux.Vars(r)["day"])
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, p)
}

func (h *UserHandler) SetPlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	var p *plan.WorkoutPlan
	if !decodeBody(w, r, &p) {
		return
	}

	saved, err := h.userService.SetPlan(ctx, userID, mux.Vars(r)["day"], p)
	if err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, saved)
}

func (h *UserHandler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := requestContext(r)
	defer cancel()

	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	if err := h.userService.DeletePlan(ctx, userID, mux.Vars(r)["day"]); err != nil {
		respondWithServiceError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Plan deleted successfully"})
}
