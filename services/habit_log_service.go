package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"habitTrackerAPI/internal/events"
	"habitTrackerAPI/internal/metrics"
	"habitTrackerAPI/internal/repository"
	"habitTrackerAPI/internal/schedule"
	"habitTrackerAPI/internal/stats"
	"habitTrackerAPI/internal/types/calendar"
	"habitTrackerAPI/internal/types/habit"
)

const statsWeeks = 8

type LogServiceConfig struct {
	DefaultTimezone string
	DefaultLimit    int
	MaxLimit        int
}

// HabitLogService records habit logs and keeps each habit's schedule and
// progress in line with them.
type HabitLogService struct {
	habits     HabitStore
	logs       TaskLogStore
	reconciler *schedule.Reconciler
	clock      schedule.Clock
	cfg        LogServiceConfig
	logger     *zap.Logger
	deduper    Deduper
	dispatcher *NotificationDispatcher
}

func NewHabitLogService(habits HabitStore, logs TaskLogStore, clock schedule.Clock, cfg LogServiceConfig, logger *zap.Logger) *HabitLogService {
	if clock == nil {
		clock = schedule.SystemClock()
	}
	return &HabitLogService{
		habits:     habits,
		logs:       logs,
		reconciler: schedule.NewReconciler(schedule.NewProgressTracker(clock)),
		clock:      clock,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *HabitLogService) SetDeduper(d Deduper) {
	s.deduper = d
}

func (s *HabitLogService) SetDispatcher(d *NotificationDispatcher) {
	s.dispatcher = d
}

// CreateLog stores the log and then updates the habit it belongs to. The
// stored log is the fact of record: when the habit update fails the log is
// kept and the problem is reported in LogResult.Warning.
func (s *HabitLogService) CreateLog(ctx context.Context, userID int64, idempotencyKey string, req *habit.CreateLogRequest) (*habit.LogResult, error) {
	if err := invalid(req.Validate()...); err != nil {
		return nil, err
	}

	task, err := s.ownedHabit(ctx, userID, req.TaskID)
	if err != nil {
		return nil, err
	}

	entry, err := s.buildLog(userID, task, req)
	if err != nil {
		return nil, err
	}

	scope := "habit-log:" + strconv.FormatInt(userID, 10)
	guarded := idempotencyKey != "" && s.deduper != nil
	if guarded && !s.deduper.AcquireOnce(ctx, scope, idempotencyKey) {
		metrics.RecordIdempotencyDuplicate()
		return nil, ErrDuplicateRequest
	}

	saved, err := s.logs.Upsert(ctx, entry)
	if err != nil {
		if guarded {
			s.deduper.Release(context.WithoutCancel(ctx), scope, idempotencyKey)
		}
		return nil, fmt.Errorf("failed to record log: %w", err)
	}
	metrics.RecordHabitLog(string(saved.Status))

	result := &habit.LogResult{Log: saved}
	s.dispatch(DispatchJob{Kind: events.LogRecorded, Log: saved})

	if saved.Status != habit.StatusCompleted {
		metrics.RecordReconcile(metrics.OutcomeNoop)
		return result, nil
	}

	updated, achieved, warning := s.reconcile(ctx, saved)
	result.Habit = updated
	if warning != nil {
		result.Warning = warning.Error()
	}
	if achieved {
		metrics.RecordTargetAchieved()
		s.dispatch(DispatchJob{Kind: events.TargetAchieved, Habit: updated})
	}
	return result, nil
}

// reconcile applies the log to its habit under a row lock. Failures are
// logged and returned as a warning, never as an error.
func (s *HabitLogService) reconcile(ctx context.Context, l *habit.TaskLog) (*habit.HabitTask, bool, error) {
	var (
		warning  error
		achieved bool
	)

	updated, err := s.habits.Modify(ctx, l.TaskID, func(current habit.HabitTask) (habit.HabitTask, *habit.TargetHistoryEntry, error) {
		m, w := s.reconciler.Reconcile(current, *l)
		warning = w
		achieved = m.Achieves()
		return m.Apply(current), nil, nil
	})

	switch {
	case err != nil:
		warning = errors.Join(warning, err)
		achieved = false
		metrics.RecordReconcile(metrics.OutcomeFailed)
	case warning != nil:
		metrics.RecordReconcile(metrics.OutcomeWarning)
	default:
		metrics.RecordReconcile(metrics.OutcomeApplied)
	}

	if warning != nil {
		s.logger.Warn("habit log recorded but habit not fully updated",
			zap.Int64("habit_id", l.TaskID),
			zap.Int64("log_id", l.ID),
			zap.Error(warning),
		)
	}
	return updated, achieved, warning
}

func (s *HabitLogService) buildLog(userID int64, task *habit.HabitTask, req *habit.CreateLogRequest) (*habit.TaskLog, error) {
	l := &habit.TaskLog{
		UserID:          userID,
		TaskID:          task.ID,
		HabitName:       req.HabitName,
		Status:          habit.StatusCompleted,
		Quantity:        req.Quantity,
		Unit:            req.Unit,
		DurationSeconds: req.DurationSeconds,
		OccurredAt:      s.clock.Now(),
		TZ:              s.cfg.DefaultTimezone,
		Source:          habit.SourceManual,
		Note:            req.Note,
		Metadata:        req.Metadata,
	}
	if l.HabitName == nil {
		name := task.TaskName
		l.HabitName = &name
	}
	if req.Status != nil {
		l.Status = *req.Status
	}
	if req.Source != nil {
		l.Source = *req.Source
	}
	if req.OccurredAt != nil {
		l.OccurredAt = *req.OccurredAt
	}
	if req.TZ != nil && strings.TrimSpace(*req.TZ) != "" {
		l.TZ = strings.TrimSpace(*req.TZ)
	}
	if l.Metadata == nil {
		l.Metadata = map[string]any{}
	}

	localDate, err := schedule.LocalDate(l.OccurredAt, l.TZ)
	if err != nil {
		return nil, invalid(fmt.Sprintf("tz %q is not a valid IANA time zone", l.TZ))
	}
	l.LocalDate = localDate
	return l, nil
}

func (s *HabitLogService) ListLogs(ctx context.Context, userID int64, taskID *int64, limit int) ([]habit.TaskLog, error) {
	switch {
	case limit <= 0:
		limit = s.cfg.DefaultLimit
	case limit > s.cfg.MaxLimit:
		limit = s.cfg.MaxLimit
	}

	logs, err := s.logs.List(ctx, userID, habit.LogFilter{TaskID: taskID, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("failed to list logs: %w", err)
	}
	return logs, nil
}

// DeleteLog removes a log. The habit's schedule and progress are not rolled
// back.
func (s *HabitLogService) DeleteLog(ctx context.Context, userID, id int64) error {
	if err := s.logs.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrLogNotFound
		}
		return fmt.Errorf("failed to delete log: %w", err)
	}
	return nil
}

// Calendar lists every day of the month with the status logged on it. A zero
// year or month means the current one.
func (s *HabitLogService) Calendar(ctx context.Context, userID, taskID int64, year, month int) (*calendar.CalendarResponse, error) {
	if month < 0 || month > 12 {
		return nil, invalid("month must be between 1 and 12")
	}
	if year < 0 || year > 9999 {
		return nil, invalid("year is out of range")
	}

	task, err := s.ownedHabit(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	today, err := s.today()
	if err != nil {
		return nil, err
	}
	if year == 0 {
		year = today.Year
	}
	if month == 0 {
		month = int(today.Month)
	}

	first, last := calendar.MonthRange(year, time.Month(month))
	days, err := s.logs.Days(ctx, task.ID, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("failed to load log days: %w", err)
	}

	cal := calendar.Build(task.ID, year, time.Month(month), days, today)
	return &cal, nil
}

// Stats summarises the completed days of a habit. Streaks use the habit's
// frequency as the longest allowed gap, or one day when it cannot be parsed.
func (s *HabitLogService) Stats(ctx context.Context, userID, taskID int64) (*stats.HabitStats, error) {
	task, err := s.ownedHabit(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}
	today, err := s.today()
	if err != nil {
		return nil, err
	}

	days, err := s.logs.Days(ctx, task.ID, nil, &today)
	if err != nil {
		return nil, fmt.Errorf("failed to load log days: %w", err)
	}

	frequency, err := task.FrequencyOfTask.Days()
	if err != nil {
		frequency = 1
	}

	st := stats.Compute(stats.CompletedDates(days), today, frequency, statsWeeks)
	return &st, nil
}

func (s *HabitLogService) ownedHabit(ctx context.Context, userID, taskID int64) (*habit.HabitTask, error) {
	task, err := s.habits.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrHabitNotFound
		}
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}
	if task.UserID != userID {
		return nil, ErrForbidden
	}
	return task, nil
}

func (s *HabitLogService) today() (civil.Date, error) {
	today, err := schedule.LocalDate(s.clock.Now(), s.cfg.DefaultTimezone)
	if err != nil {
		return civil.Date{}, fmt.Errorf("default timezone: %w", err)
	}
	return today, nil
}

func (s *HabitLogService) dispatch(job DispatchJob) {
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(job)
	}
}
