package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskpilot/internal/model"
)

// TaskStore is the task collection a command executes against, already
// scoped to the acting user. The executor decides what to mutate and which
// task it targets; persistence stays behind this interface.
type TaskStore interface {
	Insert(ctx context.Context, t *model.Task) (*model.Task, error)
	Update(ctx context.Context, id string, patch model.TaskPatch) error
	Delete(ctx context.Context, id string) error
	ListCurrent(ctx context.Context) ([]model.Task, error)
}

const (
	genericTip   = "Here's a helpful tip for managing your tasks effectively."
	genericReply = "I processed your request successfully."
)

// Executor maps a Command onto task mutations and produces the confirmation
// text the chat shows back.
type Executor struct {
	store  TaskStore
	logger *zap.Logger
}

func NewExecutor(store TaskStore, logger *zap.Logger) *Executor {
	return &Executor{store: store, logger: logger}
}

// Execute performs the command's mutation(s) and returns a confirmation, or
// a TargetNotFoundError / wrapped ErrMutationFailed.
func (e *Executor) Execute(ctx context.Context, cmd Command) (string, error) {
	switch cmd.Kind {
	case ActionCreateTask:
		return e.createTask(ctx, cmd.Create)
	case ActionUpdateTask:
		return e.updateTask(ctx, cmd.Update)
	case ActionDeleteTask:
		return e.deleteTask(ctx, cmd.Target)
	case ActionDeleteAllTasks:
		return e.deleteAll(ctx, false)
	case ActionDeleteCompleted:
		return e.deleteAll(ctx, true)
	case ActionMarkComplete:
		return e.setStatus(ctx, cmd.Target, model.StatusCompleted, "complete")
	case ActionMarkIncomplete:
		return e.setStatus(ctx, cmd.Target, model.StatusTodo, "incomplete")
	case ActionSetPriority:
		return e.setPriority(ctx, cmd.Priority)
	case ActionGiveTaskTip, ActionEstimateTaskTime:
		if cmd.Info != nil && cmd.Info.Response != "" {
			return cmd.Info.Response, nil
		}
		return genericTip, nil
	default:
		if cmd.Info != nil && cmd.Info.Response != "" {
			return cmd.Info.Response, nil
		}
		return genericReply, nil
	}
}

func (e *Executor) createTask(ctx context.Context, p *CreatePayload) (string, error) {
	if p == nil || strings.TrimSpace(p.Title) == "" {
		return "", fmt.Errorf("%w: no task title supplied", ErrMutationFailed)
	}

	priority := p.Priority
	if !model.ValidPriority(priority) {
		priority = model.PriorityMedium
	}
	status := p.Status
	if !model.ValidStatus(status) {
		status = model.StatusTodo
	}

	task := &model.Task{
		Title:       strings.TrimSpace(p.Title),
		Description: p.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     ResolveDate(p.DueDate, time.Now()),
	}

	if _, err := e.store.Insert(ctx, task); err != nil {
		e.logger.Error("Assistant create failed", zap.String("title", task.Title), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrMutationFailed, err)
	}

	return fmt.Sprintf("Created task: \"%s\"", task.Title), nil
}

func (e *Executor) updateTask(ctx context.Context, p *UpdatePayload) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: empty update payload", ErrMutationFailed)
	}

	target, err := e.resolveTarget(ctx, p.TargetTitle)
	if err != nil {
		return "", err
	}

	patch := model.TaskPatch{}
	if p.Title != "" {
		title := p.Title
		patch.Title = &title
	}
	if p.Description != "" {
		desc := p.Description
		patch.Description = &desc
	}
	if model.ValidPriority(p.Priority) {
		priority := p.Priority
		patch.Priority = &priority
	}
	if model.ValidStatus(p.Status) {
		status := p.Status
		patch.Status = &status
	}
	if p.DueDate != "" {
		due := ResolveDate(p.DueDate, time.Now())
		patch.DueDate = &due
	}

	if err := e.store.Update(ctx, target.ID, patch); err != nil {
		e.logger.Error("Assistant update failed", zap.String("task_id", target.ID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrMutationFailed, err)
	}

	return fmt.Sprintf("Updated task: \"%s\"", target.Title), nil
}

func (e *Executor) deleteTask(ctx context.Context, p *TargetPayload) (string, error) {
	fragment := ""
	if p != nil {
		fragment = p.TargetTitle
	}

	target, err := e.resolveTarget(ctx, fragment)
	if err != nil {
		return "", err
	}

	if err := e.store.Delete(ctx, target.ID); err != nil {
		e.logger.Error("Assistant delete failed", zap.String("task_id", target.ID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrMutationFailed, err)
	}

	return fmt.Sprintf("Deleted task: \"%s\"", target.Title), nil
}

// deleteAll removes the user's tasks, optionally only the completed ones.
// Deletions are independent: one failure does not stop the rest, and the
// confirmation reports how many actually went through.
func (e *Executor) deleteAll(ctx context.Context, completedOnly bool) (string, error) {
	tasks, err := e.store.ListCurrent(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMutationFailed, err)
	}

	candidates := tasks
	if completedOnly {
		candidates = nil
		for _, t := range tasks {
			if t.Status == model.StatusCompleted {
				candidates = append(candidates, t)
			}
		}
	}

	deleted := 0
	for _, t := range candidates {
		if err := e.store.Delete(ctx, t.ID); err != nil {
			e.logger.Error("Assistant bulk delete: item failed",
				zap.String("task_id", t.ID),
				zap.Error(err),
			)
			continue
		}
		deleted++
	}

	noun := "tasks"
	if completedOnly {
		noun = "completed tasks"
	}
	if deleted < len(candidates) {
		return fmt.Sprintf("Deleted %d of %d %s", deleted, len(candidates), noun), nil
	}
	return fmt.Sprintf("Deleted %d %s", deleted, noun), nil
}

func (e *Executor) setStatus(ctx context.Context, p *TargetPayload, status, word string) (string, error) {
	fragment := ""
	if p != nil {
		fragment = p.TargetTitle
	}

	target, err := e.resolveTarget(ctx, fragment)
	if err != nil {
		return "", err
	}

	patch := model.TaskPatch{Status: &status}
	if err := e.store.Update(ctx, target.ID, patch); err != nil {
		e.logger.Error("Assistant status change failed", zap.String("task_id", target.ID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrMutationFailed, err)
	}

	return fmt.Sprintf("Marked \"%s\" as %s", target.Title, word), nil
}

func (e *Executor) setPriority(ctx context.Context, p *PriorityPayload) (string, error) {
	if p == nil {
		return "", fmt.Errorf("%w: empty priority payload", ErrMutationFailed)
	}

	target, err := e.resolveTarget(ctx, p.TargetTitle)
	if err != nil {
		return "", err
	}

	priority := p.Priority
	if !model.ValidPriority(priority) {
		priority = model.PriorityMedium
	}

	patch := model.TaskPatch{Priority: &priority}
	if err := e.store.Update(ctx, target.ID, patch); err != nil {
		e.logger.Error("Assistant priority change failed", zap.String("task_id", target.ID), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrMutationFailed, err)
	}

	return fmt.Sprintf("Set \"%s\" priority to %s", target.Title, priority), nil
}

// resolveTarget finds the first task whose title contains the fragment,
// case-insensitively, in list order. Duplicate titles resolve to the first
// match; the model never sees task ids, so the fragment is all we have.
func (e *Executor) resolveTarget(ctx context.Context, fragment string) (*model.Task, error) {
	if strings.TrimSpace(fragment) == "" {
		return nil, &TargetNotFoundError{Fragment: fragment}
	}

	tasks, err := e.store.ListCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMutationFailed, err)
	}

	needle := strings.ToLower(fragment)
	for i := range tasks {
		if strings.Contains(strings.ToLower(tasks[i].Title), needle) {
			return &tasks[i], nil
		}
	}

	return nil, &TargetNotFoundError{Fragment: fragment}
}

// ResolveDate turns free-text dates into a calendar date. "today" and
// "tomorrow" are recognized as substrings, case-insensitively; anything
// else is parsed as a date, and whatever cannot be parsed falls back to
// today. Times of day are dropped, the task model keeps dates only.
func ResolveDate(raw string, now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	lower := strings.ToLower(raw)
	switch {
	case strings.Contains(lower, "today"):
		return today
	case strings.Contains(lower, "tomorrow"):
		return today.AddDate(0, 0, 1)
	}

	layouts := []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
		"January 2, 2006",
		"Jan 2, 2006",
		"01/02/2006",
	}
	trimmed := strings.TrimSpace(raw)
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, now.Location())
		}
	}

	return today
}
