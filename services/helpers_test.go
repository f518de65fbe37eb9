package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/schedule"
	"habitTrackerAPI/internal/testutil"
	"habitTrackerAPI/internal/types/habit"
	"habitTrackerAPI/internal/types/user"
)

var testNow = time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)

func testClock() schedule.Clock {
	return schedule.ClockFunc(func() time.Time { return testNow })
}

func ptr[T any](v T) *T { return &v }

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

type fixture struct {
	store     *testutil.Store
	habits    *HabitService
	logs      *HabitLogService
	users     *UserService
	workouts  *WorkoutService
	categorys *CategoryService
	userID    int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := testutil.NewStore()
	logger := zap.NewNop()
	f := &fixture{
		store:     store,
		habits:    NewHabitService(store.Habits(), store.Users(), store.Categories(), testClock(), logger),
		logs:      NewHabitLogService(store.Habits(), store.Logs(), testClock(), LogServiceConfig{DefaultTimezone: "UTC", DefaultLimit: 50, MaxLimit: 500}, logger),
		users:     NewUserService(store.Users(), logger),
		workouts:  NewWorkoutService(store.Users(), store.Workouts(), testClock(), "UTC", logger),
		categorys: NewCategoryService(store.Categories(), store.Users(), logger),
	}

	u, err := f.users.CreateUser(context.Background(), &user.CreateUserRequest{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	f.userID = u.ID
	return f
}

func (f *fixture) createHabit(t *testing.T, freq string, target *float64) *habit.HabitTask {
	t.Helper()

	req := &habit.CreateHabitRequest{
		TaskName:        "Run",
		StartDate:       ptr(day(2024, 1, 1)),
		FrequencyOfTask: habit.Frequency(freq),
	}
	if target != nil {
		req.TargetValue = target
		req.TargetUnit = ptr("km")
	}
	h, err := f.habits.CreateHabit(context.Background(), f.userID, req)
	require.NoError(t, err)
	return h
}

// failingModify lets reads through and fails every Modify.
type failingModify struct {
	HabitStore
}

var errStoreDown = errors.New("store unavailable")

func (failingModify) Modify(ctx context.Context, id int64, fn func(habit.HabitTask) (habit.HabitTask, *habit.TargetHistoryEntry, error)) (*habit.HabitTask, error) {
	return nil, errStoreDown
}

type fakeDeduper struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (d *fakeDeduper) AcquireOnce(ctx context.Context, scope, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	k := scope + "|" + key
	if d.seen[k] {
		return false
	}
	d.seen[k] = true
	return true
}

func (d *fakeDeduper) Release(ctx context.Context, scope, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.seen, scope+"|"+key)
}

// flakyLogs fails every Upsert while down is set.
type flakyLogs struct {
	TaskLogStore
	down bool
}

func (l *flakyLogs) Upsert(ctx context.Context, t *habit.TaskLog) (*habit.TaskLog, error) {
	if l.down {
		return nil, errStoreDown
	}
	return l.TaskLogStore.Upsert(ctx, t)
}

type fakePush struct {
	mu     sync.Mutex
	topics []string
	bodies []string
}

func (p *fakePush) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topics = append(p.topics, topic)
	p.bodies = append(p.bodies, body)
	return nil
}

type fakePublisher struct {
	mu   sync.Mutex
	keys []string
	err  error
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, routingKey)
	return p.err
}
