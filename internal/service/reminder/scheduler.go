package reminder

import (
	"context"
	"time"

	"go.uber.org/zap"

	"taskpilot/contracts/mq"
	"taskpilot/internal/repository"
	"taskpilot/pkg/metrics"
	pkgmq "taskpilot/pkg/mq"
)

// Scheduler polls for due reminders and overdue tasks and turns them into
// events. Each reminder fires once; overdue tasks are flagged once.
type Scheduler struct {
	taskRepo  *repository.TaskRepository
	publisher *pkgmq.Publisher
	logger    *zap.Logger
}

func NewScheduler(taskRepo *repository.TaskRepository, publisher *pkgmq.Publisher, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		taskRepo:  taskRepo,
		publisher: publisher,
		logger:    logger,
	}
}

// Run polls at the given interval until ctx is cancelled. The first check
// runs immediately on startup.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Reminder scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	if err := s.CheckDueReminders(ctx); err != nil {
		s.logger.Error("Reminder check failed", zap.Error(err))
	}
	if err := s.CheckOverdueTasks(ctx); err != nil {
		s.logger.Error("Overdue check failed", zap.Error(err))
	}
}

// CheckDueReminders publishes reminder.due for every enabled, undispatched
// reminder whose date and time have passed.
func (s *Scheduler) CheckDueReminders(ctx context.Context) error {
	now := time.Now()

	tasks, err := s.taskRepo.ListDueReminders(ctx, now)
	if err != nil {
		s.logger.Error("Failed to list due reminders", zap.Error(err))
		return err
	}

	if len(tasks) == 0 {
		return nil
	}

	for _, t := range tasks {
		payload := mq.ReminderDuePayload{
			TaskID: t.ID,
			UserID: t.UserID,
			Title:  t.Title,
			DueAt:  now,
		}
		if err := s.publisher.Publish("reminder.due", payload); err != nil {
			s.logger.Error("Failed to publish reminder.due event",
				zap.String("task_id", t.ID),
				zap.Error(err),
			)
			continue
		}

		// Marked only after a successful publish, so a failed publish
		// retries on the next tick.
		if err := s.taskRepo.MarkReminderDispatched(ctx, t.ID); err != nil {
			s.logger.Error("Failed to mark reminder dispatched",
				zap.String("task_id", t.ID),
				zap.Error(err),
			)
			continue
		}

		metrics.IncrementReminderDispatch("reminder")
		s.logger.Info("Published reminder.due event",
			zap.String("task_id", t.ID),
			zap.Int("user_id", t.UserID),
		)
	}

	s.logger.Info("Reminder check completed", zap.Int("due_count", len(tasks)))
	return nil
}

// CheckOverdueTasks publishes task.overdue for unfinished tasks whose due
// date has passed and that have not been flagged yet.
func (s *Scheduler) CheckOverdueTasks(ctx context.Context) error {
	now := time.Now()

	tasks, err := s.taskRepo.ListOverdueUnnotified(ctx, now)
	if err != nil {
		s.logger.Error("Failed to list overdue tasks", zap.Error(err))
		return err
	}

	if len(tasks) == 0 {
		return nil
	}

	for _, t := range tasks {
		payload := mq.TaskOverduePayload{
			TaskID:  t.ID,
			UserID:  t.UserID,
			Title:   t.Title,
			DueDate: t.DueDate,
		}
		if err := s.publisher.Publish("task.overdue", payload); err != nil {
			s.logger.Error("Failed to publish task.overdue event",
				zap.String("task_id", t.ID),
				zap.Error(err),
			)
			continue
		}

		if err := s.taskRepo.MarkOverdueNotified(ctx, t.ID); err != nil {
			s.logger.Error("Failed to mark task overdue-notified",
				zap.String("task_id", t.ID),
				zap.Error(err),
			)
			continue
		}

		metrics.IncrementReminderDispatch("overdue")
		s.logger.Info("Published task.overdue event",
			zap.String("task_id", t.ID),
			zap.Int("user_id", t.UserID),
		)
	}

	s.logger.Info("Overdue check completed", zap.Int("overdue_count", len(tasks)))
	return nil
}
