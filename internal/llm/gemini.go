package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskpilot/pkg/circuitbreaker"
	"taskpilot/pkg/config"
	"taskpilot/pkg/metrics"
)

const defaultGeminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models"

// GeminiClient calls the generateContent endpoint directly. Temperature is
// kept low and output bounded because the reply is expected to be a small
// JSON object, not prose.
type GeminiClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
	cb         *circuitbreaker.CircuitBreaker
}

func NewGeminiClient(cfg config.AIConfig) *GeminiClient {
	model := cfg.Model
	if model == "" {
		model = "gemini-1.5-flash-latest"
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultGeminiEndpoint
	}

	cbConfig := circuitbreaker.Config{
		FailureThreshold:    3,
		SuccessThreshold:    2,
		Timeout:             30 * time.Second,
		HalfOpenMaxRequests: 2,
	}

	return &GeminiClient{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // per-call deadline comes from ctx
		},
		cb: circuitbreaker.NewCircuitBreaker(cbConfig),
	}
}

func (c *GeminiClient) Provider() string { return "gemini" }

type geminiRequest struct {
	Contents         []geminiContent `json:"contents"`
	GenerationConfig geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Complete sends the prompt and returns the raw completion text.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: api key not configured", ErrModelUnavailable)
	}

	var completion string
	err := c.cb.Execute(func() error {
		start := time.Now()
		text, status, err := c.doRequest(ctx, prompt)
		metrics.RecordLLMCallLatency("gemini", status, time.Since(start))
		if err != nil {
			return err
		}
		completion = text
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

func (c *GeminiClient) doRequest(ctx context.Context, prompt string) (string, string, error) {
	body := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		GenerationConfig: geminiGenConfig{
			Temperature:     0.3,
			MaxOutputTokens: 500,
		},
	}

	b, err := json.Marshal(body)
	if err != nil {
		return "", "error", err
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", "error", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", "error", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return "", "429", ErrRateLimited
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", fmt.Sprintf("%d", resp.StatusCode),
			fmt.Errorf("%w: invalid api key (%d)", ErrModelUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Sprintf("%d", resp.StatusCode),
			fmt.Errorf("%w: gemini api error %d", ErrModelUnavailable, resp.StatusCode)
	}

	var decoded geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", "error", fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	if len(decoded.Candidates) == 0 ||
		len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", "error", fmt.Errorf("%w: empty candidate list", ErrModelUnavailable)
	}

	return decoded.Candidates[0].Content.Parts[0].Text, "success", nil
}
