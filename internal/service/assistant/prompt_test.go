package assistant

import (
	"strings"
	"testing"
)

func TestPromptMentionsEveryAction(t *testing.T) {
	prompt := BuildPrompt("anything")

	for _, action := range AllActions() {
		if !strings.Contains(prompt, string(action)) {
			t.Errorf("prompt does not mention action %q", action)
		}
	}
}

func TestPromptMentionsRequiredFields(t *testing.T) {
	prompt := BuildPrompt("anything")

	for _, field := range []string{"title", "description", "priority", "due_date", "status", "target_title", "response"} {
		if !strings.Contains(prompt, field) {
			t.Errorf("prompt does not mention field %q", field)
		}
	}

	// Enumerated values the model is allowed to use.
	for _, value := range []string{"high", "medium", "low", "todo", "in-progress", "completed"} {
		if !strings.Contains(prompt, value) {
			t.Errorf("prompt does not mention enum value %q", value)
		}
	}
}

func TestPromptIncludesUtteranceVerbatim(t *testing.T) {
	prompt := BuildPrompt("Create a task to finish the report by tomorrow")
	if !strings.Contains(prompt, `User Input: "Create a task to finish the report by tomorrow"`) {
		t.Error("utterance not appended as the final input line")
	}
	if !strings.HasSuffix(prompt, `"Create a task to finish the report by tomorrow"`) {
		t.Error("utterance should be the last thing the model sees")
	}
}

func TestPromptIsDeterministic(t *testing.T) {
	a := BuildPrompt("same input")
	b := BuildPrompt("same input")
	if a != b {
		t.Error("prompt building must be a pure function of the utterance")
	}
}

func TestPromptContainsWorkedExamples(t *testing.T) {
	prompt := BuildPrompt("anything")
	if strings.Count(prompt, "Input:") < 2 {
		t.Error("prompt should contain at least two worked examples")
	}
	if !strings.Contains(prompt, `"action": "create_task"`) {
		t.Error("prompt should show an example JSON output")
	}
}
