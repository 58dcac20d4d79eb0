package assistant

import (
	"testing"
)

func TestParseRecognizedActions(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		kind Action
	}{
		{"create", `{"action":"create_task","title":"Buy milk","priority":"high","due_date":"tomorrow","status":"todo"}`, ActionCreateTask},
		{"update", `{"action":"update_task","target_title":"milk","description":"2 liters"}`, ActionUpdateTask},
		{"delete", `{"action":"delete_task","target_title":"milk"}`, ActionDeleteTask},
		{"delete all", `{"action":"delete_all_tasks"}`, ActionDeleteAllTasks},
		{"delete completed", `{"action":"delete_all_completed_tasks"}`, ActionDeleteCompleted},
		{"mark complete", `{"action":"mark_task_complete","target_title":"milk"}`, ActionMarkComplete},
		{"mark incomplete", `{"action":"mark_task_incomplete","target_title":"milk"}`, ActionMarkIncomplete},
		{"set priority", `{"action":"set_task_priority","target_title":"milk","priority":"low"}`, ActionSetPriority},
		{"tip", `{"action":"give_task_tip","response":"Plan ahead."}`, ActionGiveTaskTip},
		{"estimate", `{"action":"estimate_task_time","response":"About an hour."}`, ActionEstimateTaskTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("unexpected diagnostic: %v", err)
			}
			if cmd.Kind != tt.kind {
				t.Errorf("kind mismatch: got %q, want %q", cmd.Kind, tt.kind)
			}
		})
	}
}

func TestParsePreservesFields(t *testing.T) {
	raw := `{"action":"create_task","title":"Buy milk","description":"2 liters","priority":"high","due_date":"tomorrow","status":"in-progress"}`
	cmd, err := Parse(raw)
	if err != nil {
		t.Fatalf("unexpected diagnostic: %v", err)
	}
	if cmd.Create == nil {
		t.Fatal("expected create payload")
	}
	if cmd.Create.Title != "Buy milk" ||
		cmd.Create.Description != "2 liters" ||
		cmd.Create.Priority != "high" ||
		cmd.Create.DueDate != "tomorrow" ||
		cmd.Create.Status != "in-progress" {
		t.Errorf("payload fields mutated: %+v", cmd.Create)
	}
}

func TestParseFallbackOnProse(t *testing.T) {
	raw := "Sure, I'll do that!"
	cmd, err := Parse(raw)
	if err == nil {
		t.Error("expected a diagnostic for non-JSON input")
	}
	if cmd.Kind != ActionGiveTaskTip {
		t.Errorf("expected give_task_tip fallback, got %q", cmd.Kind)
	}
	if cmd.Info == nil || cmd.Info.Response != raw {
		t.Errorf("fallback must carry the raw text verbatim, got %+v", cmd.Info)
	}
}

func TestParseFallbackIdempotent(t *testing.T) {
	raw := "not json at all {{"
	first, _ := Parse(raw)
	second, _ := Parse(raw)

	if first.Kind != second.Kind {
		t.Errorf("fallback kinds differ: %q vs %q", first.Kind, second.Kind)
	}
	if first.Info.Response != second.Info.Response {
		t.Errorf("fallback payloads differ: %q vs %q", first.Info.Response, second.Info.Response)
	}
}

func TestParseNonObjectJSON(t *testing.T) {
	// Valid JSON that is not an object with string keys degrades the same
	// way as a decode failure.
	for _, raw := range []string{`[1,2,3]`, `42`, `"hello"`, `true`} {
		cmd, err := Parse(raw)
		if err == nil {
			t.Errorf("input %s: expected a diagnostic", raw)
		}
		if cmd.Kind != ActionGiveTaskTip {
			t.Errorf("input %s: expected fallback, got %q", raw, cmd.Kind)
		}
		if cmd.Info == nil || cmd.Info.Response != raw {
			t.Errorf("input %s: fallback should carry raw text", raw)
		}
	}
}

func TestParseMissingAction(t *testing.T) {
	cmd, err := Parse(`{"title":"Buy milk"}`)
	if err == nil {
		t.Error("expected a diagnostic for missing action")
	}
	if cmd.Kind != ActionGiveTaskTip {
		t.Errorf("expected fallback, got %q", cmd.Kind)
	}
}

func TestParseUnknownAction(t *testing.T) {
	raw := `{"action":"launch_rocket"}`
	cmd, err := Parse(raw)
	if err == nil {
		t.Error("expected a diagnostic for unknown action")
	}
	if cmd.Kind != ActionGiveTaskTip {
		t.Errorf("expected fallback, got %q", cmd.Kind)
	}
	if cmd.Info.Response != raw {
		t.Errorf("fallback should carry raw text, got %q", cmd.Info.Response)
	}
}

func TestParseTrimsWhitespace(t *testing.T) {
	cmd, err := Parse("\n  {\"action\":\"delete_all_tasks\"}  \n")
	if err != nil {
		t.Fatalf("unexpected diagnostic: %v", err)
	}
	if cmd.Kind != ActionDeleteAllTasks {
		t.Errorf("expected delete_all_tasks, got %q", cmd.Kind)
	}
}
