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

type TaskOverdueHandler struct {
	repo    *repository.NotificationRepository
	logger  *zap.Logger
	deduper *util.Deduper
}

func NewTaskOverdueHandler(
	repo *repository.NotificationRepository,
	logger *zap.Logger,
	deduper *util.Deduper,
) *TaskOverdueHandler {
	return &TaskOverdueHandler{
		repo:    repo,
		logger:  logger,
		deduper: deduper,
	}
}

func (h *TaskOverdueHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.TaskOverduePayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal TaskOverduePayload (non-retryable)",
			zap.Error(err),
		)
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "task_overdue", p.TaskID) {
		h.logger.Info("Duplicate task.overdue event skipped",
			zap.String("task_id", p.TaskID),
			zap.Int("user_id", p.UserID),
		)
		return nil
	}

	n := &model.Notification{
		UserID:  p.UserID,
		Type:    model.NotificationTaskOverdue,
		Content: fmt.Sprintf("Task \"%s\" is overdue.", p.Title),
	}

	if err := h.repo.Insert(ctx, n); err != nil {
		h.logger.Error("Failed to insert overdue notification",
			zap.String("task_id", p.TaskID),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("Overdue notification created",
		zap.String("task_id", p.TaskID),
		zap.Int("user_id", p.UserID),
	)
	return nil
}
