package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskpilot/internal/model"
	"taskpilot/pkg/metrics"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

const taskColumns = `
        id, user_id, title, description, status, priority, due_date,
        assigned_to, tags, attachment_url,
        reminder_date, reminder_time, reminder_enabled, reminder_dispatched,
        created_by, created_at
`

func (r *TaskRepository) Insert(ctx context.Context, t *model.Task) error {
	start := time.Now()
	r.logger.Debug("Inserting task",
		zap.String("task_id", t.ID),
		zap.Int("user_id", t.UserID),
		zap.String("title", t.Title),
		zap.String("status", t.Status),
	)

	query := `
        INSERT INTO tasks (
            id, user_id, title, description, status, priority, due_date,
            assigned_to, tags, attachment_url,
            reminder_date, reminder_time, reminder_enabled, reminder_dispatched,
            created_by, created_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
    `

	var remDate *time.Time
	var remTime string
	var remEnabled, remDispatched bool
	if t.Reminder != nil {
		remDate = &t.Reminder.Date
		remTime = t.Reminder.Time
		remEnabled = t.Reminder.Enabled
		remDispatched = t.Reminder.Dispatched
	}

	_, err := r.db.Exec(ctx, query,
		t.ID,
		t.UserID,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.DueDate,
		t.AssignedTo,
		t.Tags,
		t.AttachmentURL,
		remDate,
		remTime,
		remEnabled,
		remDispatched,
		t.CreatedBy,
		t.CreatedAt,
	)
	metrics.RecordDBQueryDuration("insert", "tasks", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.Int("user_id", t.UserID),
			zap.String("title", t.Title),
		)
		return err
	}

	r.logger.Info("Task inserted successfully",
		zap.String("task_id", t.ID),
		zap.Int("user_id", t.UserID),
	)
	return nil
}

func (r *TaskRepository) ListByUser(ctx context.Context, userID int) ([]model.Task, error) {
	start := time.Now()
	r.logger.Debug("Listing tasks for user", zap.Int("user_id", userID))

	query := `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	rows, err := r.db.Query(ctx, query, userID)
	metrics.RecordDBQueryDuration("select", "tasks", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to query tasks",
			zap.Error(err),
			zap.Int("user_id", userID),
		)
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			r.logger.Error("Failed to scan task row",
				zap.Error(err),
				zap.Int("user_id", userID),
			)
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) GetByID(ctx context.Context, id string, userID int) (*model.Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE id = $1 AND user_id = $2
    `
	row := r.db.QueryRow(ctx, query, id, userID)
	t, err := scanTask(row)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Update applies only the fields present in the patch.
func (r *TaskRepository) Update(ctx context.Context, id string, userID int, patch model.TaskPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	start := time.Now()
	sets := []string{}
	args := []any{}
	idx := 1

	appendSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, idx))
		args = append(args, value)
		idx++
	}

	if patch.Title != nil {
		appendSet("title", *patch.Title)
	}
	if patch.Description != nil {
		appendSet("description", *patch.Description)
	}
	if patch.Status != nil {
		appendSet("status", *patch.Status)
	}
	if patch.Priority != nil {
		appendSet("priority", *patch.Priority)
	}
	if patch.DueDate != nil {
		appendSet("due_date", *patch.DueDate)
	}
	if patch.AssignedTo != nil {
		appendSet("assigned_to", *patch.AssignedTo)
	}
	if patch.Tags != nil {
		appendSet("tags", *patch.Tags)
	}
	if patch.AttachmentURL != nil {
		appendSet("attachment_url", *patch.AttachmentURL)
	}
	if patch.Reminder != nil {
		appendSet("reminder_date", patch.Reminder.Date)
		appendSet("reminder_time", patch.Reminder.Time)
		appendSet("reminder_enabled", patch.Reminder.Enabled)
		appendSet("reminder_dispatched", patch.Reminder.Dispatched)
	}

	query := fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id = $%d AND user_id = $%d",
		strings.Join(sets, ", "), idx, idx+1,
	)
	args = append(args, id, userID)

	result, err := r.db.Exec(ctx, query, args...)
	metrics.RecordDBQueryDuration("update", "tasks", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to update task",
			zap.Error(err),
			zap.String("task_id", id),
			zap.Int("user_id", userID),
		)
		return err
	}

	r.logger.Info("Task updated",
		zap.String("task_id", id),
		zap.Int("user_id", userID),
		zap.Int64("rows_affected", result.RowsAffected()),
	)
	return nil
}

func (r *TaskRepository) Delete(ctx context.Context, id string, userID int) error {
	start := time.Now()
	result, err := r.db.Exec(ctx,
		`DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	metrics.RecordDBQueryDuration("delete", "tasks", time.Since(start))
	if err != nil {
		r.logger.Error("Failed to delete task",
			zap.Error(err),
			zap.String("task_id", id),
			zap.Int("user_id", userID),
		)
		return err
	}

	r.logger.Info("Task deleted",
		zap.String("task_id", id),
		zap.Int("user_id", userID),
		zap.Int64("rows_affected", result.RowsAffected()),
	)
	return nil
}

// ListDueReminders returns tasks whose enabled reminder has reached its
// scheduled date and time and has not been dispatched yet.
func (r *TaskRepository) ListDueReminders(ctx context.Context, now time.Time) ([]model.Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE reminder_enabled = TRUE
          AND reminder_dispatched = FALSE
          AND reminder_date + NULLIF(reminder_time, '')::time <= $1
    `
	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		r.logger.Error("Failed to query due reminders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) MarkReminderDispatched(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE tasks SET reminder_dispatched = TRUE WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to mark reminder dispatched",
			zap.Error(err),
			zap.String("task_id", id),
		)
	}
	return err
}

// ListOverdueUnnotified returns incomplete tasks past their due date that
// have not produced an overdue notification yet.
func (r *TaskRepository) ListOverdueUnnotified(ctx context.Context, now time.Time) ([]model.Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM tasks
        WHERE due_date < $1
          AND status != 'completed'
          AND overdue_notified = FALSE
    `
	rows, err := r.db.Query(ctx, query, now)
	if err != nil {
		r.logger.Error("Failed to query overdue tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) MarkOverdueNotified(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE tasks SET overdue_notified = TRUE WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to mark task overdue-notified",
			zap.Error(err),
			zap.String("task_id", id),
		)
	}
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (model.Task, error) {
	var t model.Task
	var remDate *time.Time
	var remTime string
	var remEnabled, remDispatched bool

	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.AssignedTo,
		&t.Tags,
		&t.AttachmentURL,
		&remDate,
		&remTime,
		&remEnabled,
		&remDispatched,
		&t.CreatedBy,
		&t.CreatedAt,
	)
	if err != nil {
		return model.Task{}, err
	}

	if remDate != nil {
		t.Reminder = &model.Reminder{
			Date:       *remDate,
			Time:       remTime,
			Enabled:    remEnabled,
			Dispatched: remDispatched,
		}
	}
	return t, nil
}
