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

type TaskCreatedHandler struct {
	repo    *repository.NotificationRepository
	logger  *zap.Logger
	deduper *util.Deduper
}

func NewTaskCreatedHandler(
	repo *repository.NotificationRepository,
	logger *zap.Logger,
	deduper *util.Deduper,
) *TaskCreatedHandler {
	return &TaskCreatedHandler{
		repo:    repo,
		logger:  logger,
		deduper: deduper,
	}
}

func (h *TaskCreatedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var p mqcontracts.TaskCreatedPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		h.logger.Error("Failed to unmarshal TaskCreatedPayload (non-retryable)",
			zap.Error(err),
		)
		return nil
	}

	if !h.deduper.AcquireOnce(ctx, "task_created", p.TaskID) {
		h.logger.Info("Duplicate task.created event skipped",
			zap.String("task_id", p.TaskID),
			zap.Int("user_id", p.UserID),
		)
		return nil
	}

	content := fmt.Sprintf("Task \"%s\" was created.", p.Title)
	if p.Source == "assistant" {
		content = fmt.Sprintf("The assistant created task \"%s\".", p.Title)
	}

	n := &model.Notification{
		UserID:  p.UserID,
		Type:    model.NotificationTaskCreated,
		Content: content,
	}

	if err := h.repo.Insert(ctx, n); err != nil {
		h.logger.Error("Failed to insert task created notification",
			zap.String("task_id", p.TaskID),
			zap.Error(err),
		)
		return err
	}

	h.logger.Info("Task created notification written",
		zap.String("task_id", p.TaskID),
		zap.Int("user_id", p.UserID),
		zap.String("source", p.Source),
	)
	return nil
}
