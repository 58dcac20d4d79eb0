package model

import "time"

// Task statuses.
const (
	StatusTodo       = "todo"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Reminder is an optional per-task alarm.
type Reminder struct {
	Date       time.Time `json:"date"`
	Time       string    `json:"time"` // "HH:MM", user-local
	Enabled    bool      `json:"enabled"`
	Dispatched bool      `json:"dispatched"`
}

type Task struct {
	ID            string    `json:"id"`
	UserID        int       `json:"user_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	DueDate       time.Time `json:"due_date"`
	AssignedTo    []string  `json:"assigned_to,omitempty"`
	Tags          []string  `json:"tags,omitempty"`
	AttachmentURL string    `json:"attachment_url,omitempty"`
	Reminder      *Reminder `json:"reminder,omitempty"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// ValidStatus reports whether s is one of the task statuses.
func ValidStatus(s string) bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusCompleted
}

// ValidPriority reports whether p is one of the task priorities.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}

// TaskPatch carries a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Status        *string    `json:"status,omitempty"`
	Priority      *string    `json:"priority,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	AssignedTo    *[]string  `json:"assigned_to,omitempty"`
	Tags          *[]string  `json:"tags,omitempty"`
	AttachmentURL *string    `json:"attachment_url,omitempty"`
	Reminder      *Reminder  `json:"reminder,omitempty"`
}

// IsEmpty reports whether the patch would change nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil && p.AssignedTo == nil &&
		p.Tags == nil && p.AttachmentURL == nil && p.Reminder == nil
}
