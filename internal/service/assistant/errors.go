package assistant

import (
	"errors"
	"fmt"

	"taskpilot/internal/llm"
)

// TargetNotFoundError means a command referenced a title fragment that
// matched none of the user's tasks.
type TargetNotFoundError struct {
	Fragment string
}

func (e *TargetNotFoundError) Error() string {
	return fmt.Sprintf("task %q not found", e.Fragment)
}

// ErrMutationFailed wraps task-store failures: the command was understood
// but the insert/update/delete did not go through.
var ErrMutationFailed = errors.New("task mutation failed")

// UserMessage converts any pipeline error into the single human-readable
// string shown in the chat. Nothing escapes this boundary as a raw error.
func UserMessage(err error) string {
	var notFound *TargetNotFoundError
	switch {
	case errors.As(err, &notFound):
		return fmt.Sprintf("Task \"%s\" not found", notFound.Fragment)
	case errors.Is(err, llm.ErrRateLimited):
		return "Rate limit exceeded. Please wait a moment and try again."
	case errors.Is(err, llm.ErrModelUnavailable):
		return "Sorry, I couldn't reach the assistant right now. Please try again."
	case errors.Is(err, ErrMutationFailed):
		return "Sorry, I couldn't apply that change. Please try again."
	default:
		return "Sorry, I encountered an error. Please try again."
	}
}
