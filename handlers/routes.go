package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type API struct {
	Users      *UserHandler
	Habits     *HabitHandler
	HabitLogs  *HabitLogHandler
	Workouts   *WorkoutHandler
	Categories *CategoryHandler
	DB         Pinger
}

// Register mounts /health and the /api/v1 routes on r.
func (a *API) Register(r *mux.Router) {
	r.HandleFunc("/health", a.health).Methods("GET")

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/users", a.Users.ListUsers).Methods("GET")
	api.HandleFunc("/users", a.Users.CreateUser).Methods("POST")

	u := api.PathPrefix("/users/{userId:[0-9]+}").Subrouter()
	u.HandleFunc("", a.Users.GetUser).Methods("GET")
	u.HandleFunc("", a.Users.UpdateUser).Methods("PUT")
	u.HandleFunc("", a.Users.DeleteUser).Methods("DELETE")

	u.HandleFunc("/plans/{day}", a.Users.GetPlan).Methods("GET")
	u.HandleFunc("/plans/{day}", a.Users.SetPlan).Methods("PUT")
	u.HandleFunc("/plans/{day}", a.Users.DeletePlan).Methods("DELETE")

	u.HandleFunc("/gym/logs", a.Workouts.ListLogs).Methods("GET")
	u.HandleFunc("/gym/logs", a.Workouts.CreateLog).Methods("POST")
	u.HandleFunc("/gym/logs/previous", a.Workouts.PreviousWeekLog).Methods("GET")
	u.HandleFunc("/gym/logs/{logId:[0-9]+}", a.Workouts.GetLog).Methods("GET")
	u.HandleFunc("/gym/logs/{logId:[0-9]+}", a.Workouts.UpdateLog).Methods("PUT")
	u.HandleFunc("/gym/logs/{logId:[0-9]+}", a.Workouts.DeleteLog).Methods("DELETE")

	u.HandleFunc("/categories", a.Categories.ListCategories).Methods("GET")
	u.HandleFunc("/categories", a.Categories.CreateCategory).Methods("POST")
	u.HandleFunc("/categories/{categoryId:[0-9]+}", a.Categories.UpdateCategory).Methods("PUT")
	u.HandleFunc("/categories/{categoryId:[0-9]+}", a.Categories.DeleteCategory).Methods("DELETE")

	u.HandleFunc("/habits", a.Habits.ListHabits).Methods("GET")
	u.HandleFunc("/habits", a.Habits.CreateHabit).Methods("POST")
	u.HandleFunc("/habits/logs", a.HabitLogs.ListLogs).Methods("GET")
	u.HandleFunc("/habits/logs", a.HabitLogs.CreateLog).Methods("POST")
	u.HandleFunc("/habits/logs/{logId:[0-9]+}", a.HabitLogs.DeleteLog).Methods("DELETE")
	u.HandleFunc("/habits/{taskId:[0-9]+}", a.Habits.GetHabit).Methods("GET")
	u.HandleFunc("/habits/{taskId:[0-9]+}", a.Habits.UpdateHabit).Methods("PUT")
	u.HandleFunc("/habits/{taskId:[0-9]+}", a.Habits.DeleteHabit).Methods("DELETE")
	u.HandleFunc("/habits/{taskId:[0-9]+}/target", a.Habits.SetTarget).Methods("POST")
	u.HandleFunc("/habits/{taskId:[0-9]+}/targets", a.Habits.TargetHistory).Methods("GET")
	u.HandleFunc("/habits/{taskId:[0-9]+}/calendar", a.HabitLogs.Calendar).Methods("GET")
	u.HandleFunc("/habits/{taskId:[0-9]+}/stats", a.HabitLogs.Stats).Methods("GET")
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if a.DB != nil {
		if err := a.DB.Ping(ctx); err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "habit-tracker-api"})
}
