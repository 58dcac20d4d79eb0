package mqhandler

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	mqcontracts "taskpilot/contracts/mq"
	"taskpilot/internal/model"
	"taskpilot/internal/repository"
	"taskpilot/internal/util"
)

type ReminderDueHandler struct {
	repo    *repository.NotificationRepository
	logger  *zap.Logger
	deduper *util.Deduper
}

func NewReminderDueHandler(
	repo *repository.NotificationRepository,
	logger *zap.Logger,
	deduper *util.Deduper,
) *ReminderDueHandler {
	return &ReminderDueHandler{
		repo:    repo,
		logger:  logger,
		deduper: deduper,
	}
}

// Handle writes an in-app notification for a fired reminder.
func (h *ReminderDueHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.ReminderDuePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		// JSON decode errors are not retryable, ack the message.
		h.logger.Error("Failed to unmarshal ReminderDuePayload (non-retryable)",
			zap.Error(err),
		)
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "reminder_due", p.TaskID) {
		h.logger.Info("Duplicate reminder.due event skipped",
			zap.String("task_id", p.TaskID),
			zap.Int("user_id", p.UserID),
		)
		return nil
	}

	n := &model.Notification{
		UserID:  p.UserID,
		Type:    model.NotificationReminderDue,
		Content: fmt.Sprintf("Reminder: \"%s\" is due.", p.Title),
	}

	if err := h.repo.Insert(ctx, n); err != nil {
		h.logger.Error("Failed to insert reminder notification",
			zap.String("task_id", p.TaskID),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("Reminder notification created",
		zap.String("task_id", p.TaskID),
		zap.Int("user_id", p.UserID),
	)
	return nil
}
