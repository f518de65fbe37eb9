package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/config"
	"habitTrackerAPI/internal/schedule"
	"habitTrackerAPI/internal/testutil"
	"habitTrackerAPI/internal/types/habit"
	"habitTrackerAPI/services"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []services.DispatchJob
}

func (d *recordingDispatcher) Dispatch(job services.DispatchJob) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
}

type failingLister struct{}

func (failingLister) ListDue(ctx context.Context, asOf civil.Date) ([]habit.HabitTask, error) {
	return nil, errors.New("db down")
}

type movableClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *movableClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *movableClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func seed(t *testing.T, store *testutil.Store) {
	t.Helper()
	ctx := context.Background()
	start := civil.Date{Year: 2024, Month: 3, Day: 1}
	later := civil.Date{Year: 2024, Month: 4, Day: 1}

	for _, h := range []habit.HabitTask{
		{UserID: 1, TaskName: "Run", StartDate: start, FrequencyOfTask: "1"},
		{UserID: 2, TaskName: "Read", StartDate: start, FrequencyOfTask: "1"},
		{UserID: 1, TaskName: "Stretch", StartDate: start, FrequencyOfTask: "1"},
		{UserID: 1, TaskName: "Swim", StartDate: later, FrequencyOfTask: "1"},
	} {
		_, err := store.Habits().Create(ctx, &h)
		require.NoError(t, err)
	}
}

func TestRunOnceGroupsByUserOncePerDay(t *testing.T) {
	store := testutil.NewStore()
	seed(t, store)

	clock := &movableClock{now: time.Date(2024, 3, 10, 2, 0, 0, 0, time.UTC)}
	dispatcher := &recordingDispatcher{}
	w, err := NewReminderWorker(store.Habits(), dispatcher, clock, config.RemindersConfig{Hour: 8}, "Asia/Kolkata", zap.NewNop())
	require.NoError(t, err)

	// 07:30 in Kolkata, before the reminder hour.
	n, err := w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	clock.set(time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC))
	n, err = w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, dispatcher.jobs, 2)
	assert.Equal(t, services.KindDueReminder, dispatcher.jobs[0].Kind)
	assert.Equal(t, int64(1), dispatcher.jobs[0].UserID)
	require.Len(t, dispatcher.jobs[0].Due, 2)
	assert.Equal(t, "Run", dispatcher.jobs[0].Due[0].TaskName)
	assert.Equal(t, "Stretch", dispatcher.jobs[0].Due[1].TaskName)
	assert.Equal(t, int64(2), dispatcher.jobs[1].UserID)

	n, err = w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	clock.set(time.Date(2024, 3, 11, 3, 0, 0, 0, time.UTC))
	n, err = w.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunOnceRetriesAfterFailure(t *testing.T) {
	clock := schedule.ClockFunc(func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) })
	w, err := NewReminderWorker(failingLister{}, &recordingDispatcher{}, clock, config.RemindersConfig{Hour: 8}, "UTC", zap.NewNop())
	require.NoError(t, err)

	_, err = w.RunOnce(context.Background())
	assert.Error(t, err)
	assert.Equal(t, civil.Date{}, w.lastRun)
}

func TestNewReminderWorkerRejectsBadZone(t *testing.T) {
	_, err := NewReminderWorker(failingLister{}, &recordingDispatcher{}, nil, config.RemindersConfig{}, "Mars/Base", zap.NewNop())
	assert.ErrorIs(t, err, schedule.ErrInvalidTimezone)
}

func TestStartStopsWithContext(t *testing.T) {
	store := testutil.NewStore()
	seed(t, store)

	clock := schedule.ClockFunc(func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) })
	dispatcher := &recordingDispatcher{}
	w, err := NewReminderWorker(store.Habits(), dispatcher, clock, config.RemindersConfig{Hour: 8, CheckInterval: time.Millisecond}, "UTC", zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	assert.Eventually(t, func() bool {
		dispatcher.mu.Lock()
		defer dispatcher.mu.Unlock()
		return len(dispatcher.jobs) == 2
	}, time.Second, 5*time.Millisecond)
	cancel()

	time.Sleep(10 * time.Millisecond)
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	assert.Len(t, dispatcher.jobs, 2)
}
