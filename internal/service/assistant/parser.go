package assistant

import (
	"encoding/json"
	"fmt"
	"strings"
)

// wireCommand is the shape the model is instructed to return. Every field
// except action is optional; which ones matter depends on the action.
type wireCommand struct {
	Action      string `json:"action"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
	TargetTitle string `json:"target_title"`
	Response    string `json:"response"`
}

// Parse converts raw model output into a Command. It never fails: anything
// that is not a JSON object with a recognized action degrades to a
// give_task_tip fallback carrying the raw text, so the chat can always show
// the model's prose as a reply. The returned error is a diagnostic for
// logging only; the Command is valid either way.
func Parse(raw string) (Command, error) {
	trimmed := strings.TrimSpace(raw)

	var wire wireCommand
	if err := json.Unmarshal([]byte(trimmed), &wire); err != nil {
		// Covers invalid JSON and valid JSON that is not an object
		// (arrays, numbers, strings) in one go.
		return fallback(raw), fmt.Errorf("model output is not a JSON object: %w", err)
	}

	if wire.Action == "" {
		return fallback(raw), fmt.Errorf("model output has no action field")
	}

	action := Action(wire.Action)
	if !knownAction(action) {
		return fallback(raw), fmt.Errorf("model returned unknown action %q", wire.Action)
	}

	return buildCommand(action, wire), nil
}

func fallback(raw string) Command {
	return Command{
		Kind: ActionGiveTaskTip,
		Info: &InfoPayload{Response: raw},
	}
}

func buildCommand(action Action, wire wireCommand) Command {
	cmd := Command{Kind: action}

	switch action {
	case ActionCreateTask:
		cmd.Create = &CreatePayload{
			Title:       wire.Title,
			Description: wire.Description,
			Priority:    wire.Priority,
			DueDate:     wire.DueDate,
			Status:      wire.Status,
		}
	case ActionUpdateTask:
		cmd.Update = &UpdatePayload{
			TargetTitle: wire.TargetTitle,
			Title:       wire.Title,
			Description: wire.Description,
			Priority:    wire.Priority,
			DueDate:     wire.DueDate,
			Status:      wire.Status,
		}
	case ActionDeleteTask, ActionMarkComplete, ActionMarkIncomplete:
		cmd.Target = &TargetPayload{TargetTitle: wire.TargetTitle}
	case ActionSetPriority:
		cmd.Priority = &PriorityPayload{
			TargetTitle: wire.TargetTitle,
			Priority:    wire.Priority,
		}
	case ActionGiveTaskTip, ActionEstimateTaskTime:
		cmd.Info = &InfoPayload{Response: wire.Response}
	case ActionDeleteAllTasks, ActionDeleteCompleted:
		// No payload.
	}

	return cmd
}
