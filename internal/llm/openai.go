package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"taskpilot/pkg/circuitbreaker"
	"taskpilot/pkg/config"
	"taskpilot/pkg/metrics"
)

// OpenAIClient is the OpenAI-compatible adapter. Endpoint can be overridden
// for proxies and compatible gateways.
type OpenAIClient struct {
	client *openai.Client
	model  string
	cb     *circuitbreaker.CircuitBreaker
}

func NewOpenAIClient(cfg config.AIConfig) *OpenAIClient {
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientCfg.BaseURL = cfg.Endpoint
	}

	cbConfig := circuitbreaker.Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 2,
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		cb:     circuitbreaker.NewCircuitBreaker(cbConfig),
	}
}

func (c *OpenAIClient) Provider() string { return "openai" }

// Complete sends the prompt as a single user message and returns the text
// of the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	var completion string
	err := c.cb.Execute(func() error {
		start := time.Now()

		resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       c.model,
			Temperature: 0.3,
			MaxTokens:   500,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			metrics.RecordLLMCallLatency("openai", classifyOpenAIStatus(err), time.Since(start))
			return translateOpenAIError(err)
		}

		metrics.RecordLLMCallLatency("openai", "success", time.Since(start))
		if len(resp.Choices) == 0 {
			return fmt.Errorf("%w: empty choice list", ErrModelUnavailable)
		}
		completion = resp.Choices[0].Message.Content
		return nil
	})

	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) {
			return "", fmt.Errorf("%w: circuit breaker open", ErrModelUnavailable)
		}
		return "", err
	}
	return completion, nil
}

func translateOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return ErrRateLimited
		}
		return fmt.Errorf("%w: openai api error %d", ErrModelUnavailable, apiErr.HTTPStatusCode)
	}
	return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
}

func classifyOpenAIStatus(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%d", apiErr.HTTPStatusCode)
	}
	return "error"
}
