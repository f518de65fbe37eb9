package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"habitTrackerAPI/internal/events"
	"habitTrackerAPI/internal/types/habit"
	"habitTrackerAPI/utils"
)

type PushNotificationProvider interface {
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// KindDueReminder pushes the list of habits due today to one user.
const KindDueReminder = "habit.due.reminder"

// DispatchJob is one side effect to deliver. Kind is an event routing key
// or KindDueReminder.
type DispatchJob struct {
	Kind   string
	Habit  *habit.HabitTask
	Log    *habit.TaskLog
	UserID int64
	Due    []habit.HabitTask
}

// NotificationDispatcher delivers push notifications and domain events off
// the request path with a fixed pool of workers.
type NotificationDispatcher struct {
	pushProvider PushNotificationProvider
	publisher    EventPublisher
	logger       *zap.Logger
	workers      int
	jobQueue     chan DispatchJob
	stopChan     chan struct{}
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

func NewNotificationDispatcher(workers int, logger *zap.Logger) *NotificationDispatcher {
	if workers <= 0 {
		workers = 2
	}
	d := &NotificationDispatcher{
		logger:   logger,
		workers:  workers,
		jobQueue: make(chan DispatchJob, 100),
		stopChan: make(chan struct{}),
	}
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

// SetPushProvider and SetEventPublisher must be called before the first
// Dispatch. Either may be left unset.
func (d *NotificationDispatcher) SetPushProvider(provider PushNotificationProvider) {
	d.pushProvider = provider
}

func (d *NotificationDispatcher) SetEventPublisher(publisher EventPublisher) {
	d.publisher = publisher
}

// Dispatch queues a job. Jobs are dropped, with a warning, when the queue
// stays full or the dispatcher is stopped.
func (d *NotificationDispatcher) Dispatch(job DispatchJob) {
	select {
	case <-d.stopChan:
		d.logger.Warn("dispatcher stopped, dropping job", zap.String("kind", job.Kind))
	case d.jobQueue <- job:
	case <-time.After(time.Second):
		d.logger.Warn("dispatch queue full, dropping job", zap.String("kind", job.Kind))
	}
}

// Stop waits for the workers to finish the jobs already queued.
func (d *NotificationDispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.stopChan) })
	d.wg.Wait()
}

func (d *NotificationDispatcher) worker() {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.jobQueue:
			d.processJob(job)
		case <-d.stopChan:
			for {
				select {
				case job := <-d.jobQueue:
					d.processJob(job)
				default:
					return
				}
			}
		}
	}
}

func (d *NotificationDispatcher) processJob(job DispatchJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch job.Kind {
	case events.LogRecorded:
		if d.publisher == nil || job.Log == nil {
			return
		}
		if err := d.publisher.Publish(ctx, events.LogRecorded, events.NewLogRecorded(*job.Log)); err != nil {
			d.logger.Warn("failed to publish log event", zap.Int64("log_id", job.Log.ID), zap.Error(err))
		}

	case events.TargetAchieved:
		if job.Habit == nil {
			return
		}
		if d.publisher != nil {
			if err := d.publisher.Publish(ctx, events.TargetAchieved, events.NewTargetAchieved(*job.Habit)); err != nil {
				d.logger.Warn("failed to publish achievement event", zap.Int64("habit_id", job.Habit.ID), zap.Error(err))
			}
		}
		if d.pushProvider != nil {
			msg := utils.TargetAchievedPush(*job.Habit)
			if err := d.pushProvider.SendToTopic(ctx, msg.Topic, msg.Title, msg.Body, msg.Data); err != nil {
				d.logger.Warn("failed to push achievement", zap.Int64("habit_id", job.Habit.ID), zap.Error(err))
			}
		}

	case KindDueReminder:
		if d.pushProvider == nil || len(job.Due) == 0 {
			return
		}
		msg := utils.DueReminderPush(job.UserID, job.Due)
		if err := d.pushProvider.SendToTopic(ctx, msg.Topic, msg.Title, msg.Body, msg.Data); err != nil {
			d.logger.Warn("failed to push due reminder", zap.Int64("user_id", job.UserID), zap.Error(err))
		}

	default:
		d.logger.Warn("unknown dispatch job", zap.String("kind", job.Kind))
	}
}
