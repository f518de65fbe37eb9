// Package testutil holds in-memory stores with the same contract as the
// PostgreSQL repositories, for service and handler tests.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/civil"

	"habitTrackerAPI/internal/repository"
	"habitTrackerAPI/internal/types/category"
	"habitTrackerAPI/internal/types/habit"
	"habitTrackerAPI/internal/types/plan"
	"habitTrackerAPI/internal/types/user"
	"habitTrackerAPI/internal/types/workout"
)

// Store keeps every table in memory behind one mutex. Habit modifications
// hold the mutex while the callback runs, like a row lock.
type Store struct {
	mu sync.Mutex

	nextID     int64
	users      map[int64]user.User
	habits     map[int64]habit.HabitTask
	history    []habit.TargetHistoryEntry
	logs       map[int64]habit.TaskLog
	workouts   map[int64]workout.WorkoutLog
	categories map[int64]category.Category

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:      map[int64]user.User{},
		habits:     map[int64]habit.HabitTask{},
		logs:       map[int64]habit.TaskLog{},
		workouts:   map[int64]workout.WorkoutLog{},
		categories: map[int64]category.Category{},
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) Users() *UserStore          { return &UserStore{s} }
func (s *Store) Habits() *HabitStore        { return &HabitStore{s} }
func (s *Store) Logs() *TaskLogStore        { return &TaskLogStore{s} }
func (s *Store) Workouts() *WorkoutLogStore { return &WorkoutLogStore{s} }
func (s *Store) Categories() *CategoryStore { return &CategoryStore{s} }

func notFound(what string, id int64) error {
	return fmt.Errorf("%s %d: %w", what, id, repository.ErrNotFound)
}

type UserStore struct{ s *Store }

func (u *UserStore) List(ctx context.Context) ([]user.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	out := []user.User{}
	for _, v := range u.s.users {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (u *UserStore) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	v, ok := u.s.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	return &v, nil
}

func (u *UserStore) emailTaken(email string, except int64) bool {
	for _, v := range u.s.users {
		if v.ID != except && strings.EqualFold(v.Email, email) {
			return true
		}
	}
	return false
}

func (u *UserStore) Create(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if u.emailTaken(req.Email, 0) {
		return nil, fmt.Errorf("%w: users_email_key", repository.ErrConflict)
	}
	v := user.User{ID: u.s.id(), Name: req.Name, Email: req.Email, CreatedAt: u.s.now()}
	u.s.users[v.ID] = v
	return &v, nil
}

func (u *UserStore) Update(ctx context.Context, id int64, req *user.UpdateUserRequest) (*user.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	v, ok := u.s.users[id]
	if !ok {
		return nil, notFound("user", id)
	}
	if req.Email != nil {
		if u.emailTaken(*req.Email, id) {
			return nil, fmt.Errorf("%w: users_email_key", repository.ErrConflict)
		}
		v.Email = *req.Email
	}
	if req.Name != nil {
		v.Name = *req.Name
	}
	u.s.users[id] = v
	return &v, nil
}

// Delete cascades to everything the user owns.
func (u *UserStore) Delete(ctx context.Context, id int64) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if _, ok := u.s.users[id]; !ok {
		return notFound("user", id)
	}
	delete(u.s.users, id)
	for k, h := range u.s.habits {
		if h.UserID == id {
			delete(u.s.habits, k)
		}
	}
	for k, l := range u.s.logs {
		if l.UserID == id {
			delete(u.s.logs, k)
		}
	}
	for k, w := range u.s.workouts {
		if w.UserID == id {
			delete(u.s.workouts, k)
		}
	}
	for k, c := range u.s.categories {
		if c.UserID == id {
			delete(u.s.categories, k)
		}
	}
	return nil
}

func (u *UserStore) GetPlan(ctx context.Context, userID int64, day plan.Weekday) (*plan.WorkoutPlan, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if !day.Valid() {
		return nil, fmt.Errorf("invalid weekday %d", int(day))
	}
	v, ok := u.s.users[userID]
	if !ok {
		return nil, notFound("user", userID)
	}
	return v.Plan(day), nil
}

func (u *UserStore) SetPlan(ctx context.Context, userID int64, day plan.Weekday, p *plan.WorkoutPlan) error {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	if !day.Valid() {
		return fmt.Errorf("invalid weekday %d", int(day))
	}
	v, ok := u.s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	*v.PlanSlot(day) = p
	u.s.users[userID] = v
	return nil
}

type HabitStore struct{ s *Store }

func (h *HabitStore) Create(ctx context.Context, t *habit.HabitTask) (*habit.HabitTask, error) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	v := *t
	v.ID = h.s.id()
	if v.NextExecutionDate == nil {
		start := v.StartDate
		v.NextExecutionDate = &start
	}
	v.CreatedAt = h.s.now()
	v.UpdatedAt = v.CreatedAt
	h.s.habits[v.ID] = v
	return &v, nil
}

func (h *HabitStore) GetByID(ctx context.Context, id int64) (*habit.HabitTask, error) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	v, ok := h.s.habits[id]
	if !ok {
		return nil, notFound("habit", id)
	}
	return &v, nil
}

func (h *HabitStore) ListByUser(ctx context.Context, userID int64, asOf *civil.Date) ([]habit.HabitTask, error) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	out := []habit.HabitTask{}
	for _, v := range h.s.habits {
		if v.UserID != userID || v.Archived() {
			continue
		}
		if asOf != nil && !v.IsDue(*asOf) {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		oi, oj := displayOrder(out[i]), displayOrder(out[j])
		if oi != oj {
			return oi < oj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// ListDue returns the due habits of every user, grouped by user.
func (h *HabitStore) ListDue(ctx context.Context, asOf civil.Date) ([]habit.HabitTask, error) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	out := []habit.HabitTask{}
	for _, v := range h.s.habits {
		if !v.Archived() && v.IsDue(asOf) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UserID != out[j].UserID {
			return out[i].UserID < out[j].UserID
		}
		oi, oj := displayOrder(out[i]), displayOrder(out[j])
		if oi != oj {
			return oi < oj
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func displayOrder(t habit.HabitTask) int {
	if t.DisplayOrder == nil {
		return 999999
	}
	return *t.DisplayOrder
}

func (h *HabitStore) Modify(ctx context.Context, id int64, fn func(current habit.HabitTask) (habit.HabitTask, *habit.TargetHistoryEntry, error)) (*habit.HabitTask, error) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	current, ok := h.s.habits[id]
	if !ok {
		return nil, notFound("habit", id)
	}

	updated, entry, err := fn(current)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		e := *entry
		e.ID = h.s.id()
		e.TaskID = id
		h.s.history = append(h.s.history, e)
	}

	updated.ID = id
	updated.UserID = current.UserID
	updated.CreatedAt = current.CreatedAt
	updated.UpdatedAt = h.s.now()
	h.s.habits[id] = updated
	return &updated, nil
}

func (h *HabitStore) Delete(ctx context.Context, userID, id int64) error {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	v, ok := h.s.habits[id]
	if !ok || v.UserID != userID {
		return repository.ErrNotFound
	}
	delete(h.s.habits, id)
	for k, l := range h.s.logs {
		if l.TaskID == id {
			delete(h.s.logs, k)
		}
	}
	return nil
}

// ListTargetHistory returns archived targets, newest first.
func (h *HabitStore) ListTargetHistory(ctx context.Context, taskID int64) ([]habit.TargetHistoryEntry, error) {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()

	out := []habit.TargetHistoryEntry{}
	for i := len(h.s.history) - 1; i >= 0; i-- {
		if h.s.history[i].TaskID == taskID {
			out = append(out, h.s.history[i])
		}
	}
	return out, nil
}

type TaskLogStore struct{ s *Store }

// Upsert replaces the log already stored for the same habit and local date.
func (l *TaskLogStore) Upsert(ctx context.Context, t *habit.TaskLog) (*habit.TaskLog, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	v := *t
	for _, existing := range l.s.logs {
		if existing.TaskID == v.TaskID && existing.LocalDate == v.LocalDate {
			v.ID = existing.ID
			v.UserID = existing.UserID
			v.CreatedAt = existing.CreatedAt
			l.s.logs[v.ID] = v
			return &v, nil
		}
	}

	v.ID = l.s.id()
	v.CreatedAt = l.s.now()
	l.s.logs[v.ID] = v
	return &v, nil
}

func (l *TaskLogStore) List(ctx context.Context, userID int64, filter habit.LogFilter) ([]habit.TaskLog, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	out := []habit.TaskLog{}
	for _, v := range l.s.logs {
		if v.UserID != userID {
			continue
		}
		if filter.TaskID != nil && v.TaskID != *filter.TaskID {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].OccurredAt.Equal(out[j].OccurredAt) {
			return out[i].OccurredAt.After(out[j].OccurredAt)
		}
		return out[i].ID > out[j].ID
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (l *TaskLogStore) Delete(ctx context.Context, userID, id int64) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	v, ok := l.s.logs[id]
	if !ok || v.UserID != userID {
		return repository.ErrNotFound
	}
	delete(l.s.logs, id)
	return nil
}

// Days returns the local date and status of each log of a habit within the
// inclusive bounds, oldest first. A nil bound is open.
func (l *TaskLogStore) Days(ctx context.Context, taskID int64, from, to *civil.Date) ([]habit.LogDay, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	out := []habit.LogDay{}
	for _, v := range l.s.logs {
		if v.TaskID != taskID {
			continue
		}
		if from != nil && v.LocalDate.Before(*from) {
			continue
		}
		if to != nil && v.LocalDate.After(*to) {
			continue
		}
		out = append(out, habit.LogDay{LocalDate: v.LocalDate, Status: v.Status})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LocalDate.Before(out[j].LocalDate) })
	return out, nil
}

type WorkoutLogStore struct{ s *Store }

func (w *WorkoutLogStore) Create(ctx context.Context, t *workout.WorkoutLog) (*workout.WorkoutLog, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	v := *t
	v.ID = w.s.id()
	v.CreatedAt = w.s.now()
	w.s.workouts[v.ID] = v
	return &v, nil
}

func (w *WorkoutLogStore) List(ctx context.Context, userID int64, filter workout.LogFilter) ([]workout.WorkoutLog, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	out := []workout.WorkoutLog{}
	for _, v := range w.s.workouts {
		if v.UserID != userID {
			continue
		}
		if filter.Date != nil && v.Date != *filter.Date {
			continue
		}
		if filter.DayName != "" && v.DayName != filter.DayName {
			continue
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (w *WorkoutLogStore) Get(ctx context.Context, userID, id int64) (*workout.WorkoutLog, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	v, ok := w.s.workouts[id]
	if !ok || v.UserID != userID {
		return nil, notFound("workout log", id)
	}
	return &v, nil
}

func (w *WorkoutLogStore) FindByDay(ctx context.Context, userID int64, date civil.Date, dayName string) (*workout.WorkoutLog, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	var found *workout.WorkoutLog
	for _, v := range w.s.workouts {
		if v.UserID != userID || v.Date != date || v.DayName != dayName {
			continue
		}
		if found == nil || v.ID > found.ID {
			v := v
			found = &v
		}
	}
	if found == nil {
		return nil, fmt.Errorf("workout log for %s: %w", date, repository.ErrNotFound)
	}
	return found, nil
}

func (w *WorkoutLogStore) UpdateEntries(ctx context.Context, userID, id int64, entries []workout.ExerciseEntry) (*workout.WorkoutLog, error) {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	v, ok := w.s.workouts[id]
	if !ok || v.UserID != userID {
		return nil, notFound("workout log", id)
	}
	v.Entries = entries
	w.s.workouts[id] = v
	return &v, nil
}

func (w *WorkoutLogStore) Delete(ctx context.Context, userID, id int64) error {
	w.s.mu.Lock()
	defer w.s.mu.Unlock()

	v, ok := w.s.workouts[id]
	if !ok || v.UserID != userID {
		return repository.ErrNotFound
	}
	delete(w.s.workouts, id)
	return nil
}

type CategoryStore struct{ s *Store }

func (c *CategoryStore) List(ctx context.Context, userID int64) ([]category.Category, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	out := []category.Category{}
	for _, v := range c.s.categories {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *CategoryStore) Get(ctx context.Context, userID, id int64) (*category.Category, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	v, ok := c.s.categories[id]
	if !ok || v.UserID != userID {
		return nil, notFound("category", id)
	}
	return &v, nil
}

func (c *CategoryStore) nameTaken(userID int64, name string, except int64) bool {
	for _, v := range c.s.categories {
		if v.ID != except && v.UserID == userID && v.Name == name {
			return true
		}
	}
	return false
}

func (c *CategoryStore) Create(ctx context.Context, userID int64, req *category.CreateCategoryRequest) (*category.Category, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	if c.nameTaken(userID, req.Name, 0) {
		return nil, fmt.Errorf("%w: habit_categories_user_id_name_key", repository.ErrConflict)
	}
	v := category.Category{ID: c.s.id(), UserID: userID, Name: req.Name, Color: req.Color, CreatedAt: c.s.now()}
	c.s.categories[v.ID] = v
	return &v, nil
}

func (c *CategoryStore) Update(ctx context.Context, userID, id int64, req *category.UpdateCategoryRequest) (*category.Category, error) {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	v, ok := c.s.categories[id]
	if !ok || v.UserID != userID {
		return nil, notFound("category", id)
	}
	if req.Name != nil {
		if c.nameTaken(userID, *req.Name, id) {
			return nil, fmt.Errorf("%w: habit_categories_user_id_name_key", repository.ErrConflict)
		}
		v.Name = *req.Name
	}
	if req.Color != nil {
		v.Color = req.Color
	}
	c.s.categories[id] = v
	return &v, nil
}

// Delete detaches the category from habits that use it.
func (c *CategoryStore) Delete(ctx context.Context, userID, id int64) error {
	c.s.mu.Lock()
	defer c.s.mu.Unlock()

	v, ok := c.s.categories[id]
	if !ok || v.UserID != userID {
		return repository.ErrNotFound
	}
	delete(c.s.categories, id)
	for k, h := range c.s.habits {
		if h.CategoryID != nil && *h.CategoryID == id {
			h.CategoryID = nil
			c.s.habits[k] = h
		}
	}
	return nil
}
