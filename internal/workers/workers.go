package workers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/config"
	"habitTrackerAPI/internal/schedule"
	"habitTrackerAPI/internal/types/habit"
	"habitTrackerAPI/services"
)

type DueHabitLister interface {
	ListDue(ctx context.Context, asOf civil.Date) ([]habit.HabitTask, error)
}

type JobDispatcher interface {
	Dispatch(job services.DispatchJob)
}

// ReminderWorker sends each user one push a day listing the habits due that
// day. It runs at most once per local date, on the first check at or after
// the configured hour.
type ReminderWorker struct {
	habits     DueHabitLister
	dispatcher JobDispatcher
	clock      schedule.Clock
	loc        *time.Location
	hour       int
	interval   time.Duration
	logger     *zap.Logger

	mu      sync.Mutex
	lastRun civil.Date
}

func NewReminderWorker(habits DueHabitLister, dispatcher JobDispatcher, clock schedule.Clock, cfg config.RemindersConfig, timezone string, logger *zap.Logger) (*ReminderWorker, error) {
	loc, err := schedule.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("reminder timezone: %w", err)
	}
	if clock == nil {
		clock = schedule.SystemClock()
	}
	interval := cfg.CheckInterval
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &ReminderWorker{
		habits:     habits,
		dispatcher: dispatcher,
		clock:      clock,
		loc:        loc,
		hour:       cfg.Hour,
		interval:   interval,
		logger:     logger,
	}, nil
}

// Start checks once right away and then on every tick until ctx is done.
func (w *ReminderWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)

	go func() {
		defer ticker.Stop()
		w.check(ctx)
		for {
			select {
			case <-ticker.C:
				w.check(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (w *ReminderWorker) check(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if _, err := w.RunOnce(runCtx); err != nil {
		w.logger.Error("due reminder run failed", zap.Error(err))
	}
}

// RunOnce dispatches the day's reminders if they are due and have not gone
// out yet. It returns the number of users reminded. A failed run is retried
// on the next check.
func (w *ReminderWorker) RunOnce(ctx context.Context) (int, error) {
	now := w.clock.Now().In(w.loc)
	today := civil.DateOf(now)

	w.mu.Lock()
	defer w.mu.Unlock()

	if now.Hour() < w.hour || w.lastRun == today {
		return 0, nil
	}

	due, err := w.habits.ListDue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("failed to list due habits: %w", err)
	}

	users := 0
	for _, group := range groupByUser(due) {
		w.dispatcher.Dispatch(services.DispatchJob{
			Kind:   services.KindDueReminder,
			UserID: group[0].UserID,
			Due:    group,
		})
		users++
	}

	w.lastRun = today
	w.logger.Info("due reminders dispatched",
		zap.String("date", today.String()),
		zap.Int("users", users),
		zap.Int("habits", len(due)),
	)
	return users, nil
}

// groupByUser keeps the order in which users first appear.
func groupByUser(habits []habit.HabitTask) [][]habit.HabitTask {
	index := map[int64]int{}
	var groups [][]habit.HabitTask
	for _, h := range habits {
		i, ok := index[h.UserID]
		if !ok {
			i = len(groups)
			index[h.UserID] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], h)
	}
	return groups
}
