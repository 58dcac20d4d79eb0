package model

import "time"

// Notification types.
const (
	NotificationTaskCreated = "task_created"
	NotificationReminderDue = "reminder_due"
	NotificationTaskOverdue = "task_overdue"
)

type Notification struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
