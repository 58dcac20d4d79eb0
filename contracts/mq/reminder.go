package mq

import "time"

// ReminderDuePayload is published when an enabled task reminder reaches
// its scheduled date and time.
type ReminderDuePayload struct {
	TaskID string    `json:"task_id"`
	UserID int       `json:"user_id"`
	Title  string    `json:"title"`
	DueAt  time.Time `json:"due_at"`
}

// TaskOverduePayload is published once for a task whose due date has
// passed without completion.
type TaskOverduePayload struct {
	TaskID  string    `json:"task_id"`
	UserID  int       `json:"user_id"`
	Title   string    `json:"title"`
	DueDate time.Time `json:"due_date"`
}

// TaskCreatedPayload is published whenever a task is created, whether
// through the UI endpoints or the assistant.
type TaskCreatedPayload struct {
	TaskID string `json:"task_id"`
	UserID int    `json:"user_id"`
	Title  string `json:"title"`
	Source string `json:"source"` // api | assistant
}
