package llm

import (
	"context"
	"errors"
	"fmt"

	"taskpilot/pkg/config"
)

// Client is the contract for a hosted generative-text endpoint: one prompt
// in, one text completion out. Implementations must classify failures into
// the sentinel errors below so callers can decide what to surface.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Provider() string
}

var (
	// ErrModelUnavailable covers network failures, non-2xx statuses and
	// missing credentials. Retryable from the user's point of view.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrRateLimited is the 429 subset of unavailability; callers should
	// suggest waiting before retrying.
	ErrRateLimited = errors.New("model rate limited")
)

// NewClient builds the configured provider's client.
func NewClient(cfg config.AIConfig) (Client, error) {
	switch cfg.Provider {
	case "", "gemini":
		return NewGeminiClient(cfg), nil
	case "openai":
		return NewOpenAIClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %q", cfg.Provider)
	}
}
