package assistant

// Action is one of the fixed operations the interpreter supports. The model
// is told about exactly this set; anything else it replies with is folded
// into the informational fallback.
type Action string

const (
	ActionCreateTask       Action = "create_task"
	ActionUpdateTask       Action = "update_task"
	ActionDeleteTask       Action = "delete_task"
	ActionDeleteAllTasks   Action = "delete_all_tasks"
	ActionDeleteCompleted  Action = "delete_all_completed_tasks"
	ActionMarkComplete     Action = "mark_task_complete"
	ActionMarkIncomplete   Action = "mark_task_incomplete"
	ActionSetPriority      Action = "set_task_priority"
	ActionGiveTaskTip      Action = "give_task_tip"
	ActionEstimateTaskTime Action = "estimate_task_time"
)

// AllActions returns the closed action set, in dispatch-table order. The
// prompt template and the executor are both checked against this list.
func AllActions() []Action {
	return []Action{
		ActionCreateTask,
		ActionUpdateTask,
		ActionDeleteTask,
		ActionDeleteAllTasks,
		ActionDeleteCompleted,
		ActionMarkComplete,
		ActionMarkIncomplete,
		ActionSetPriority,
		ActionGiveTaskTip,
		ActionEstimateTaskTime,
	}
}

func knownAction(a Action) bool {
	for _, known := range AllActions() {
		if a == known {
			return true
		}
	}
	return false
}

// CreatePayload carries the fields of a create_task command. DueDate stays
// raw text here ("tomorrow", an ISO date, garbage); the executor resolves it.
type CreatePayload struct {
	Title       string
	Description string
	Priority    string
	DueDate     string
	Status      string
}

// UpdatePayload carries the fields of an update_task command. Empty strings
// mean "not supplied"; only supplied fields are applied.
type UpdatePayload struct {
	TargetTitle string
	Title       string
	Description string
	Priority    string
	DueDate     string
	Status      string
}

// TargetPayload carries just a title fragment, for delete_task and the two
// mark actions.
type TargetPayload struct {
	TargetTitle string
}

// PriorityPayload carries the fields of a set_task_priority command.
type PriorityPayload struct {
	TargetTitle string
	Priority    string
}

// InfoPayload carries the model's prose for informational kinds and for the
// fallback.
type InfoPayload struct {
	Response string
}

// Command is one resolved user intent, ready for execution. Exactly the
// variant matching Kind is non-nil; informational kinds use Info. Commands
// are transient, they live for one interpret-and-execute cycle only.
type Command struct {
	Kind Action

	Create   *CreatePayload
	Update   *UpdatePayload
	Target   *TargetPayload
	Priority *PriorityPayload
	Info     *InfoPayload
}
