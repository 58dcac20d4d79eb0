package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskpilot/pkg/config"
)

func geminiTestServer(t *testing.T, status int, replyText string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		if len(req.Contents) != 1 || len(req.Contents[0].Parts) != 1 {
			t.Errorf("expected a single content part, got %+v", req.Contents)
		}
		if req.GenerationConfig.Temperature != 0.3 {
			t.Errorf("expected temperature 0.3, got %v", req.GenerationConfig.Temperature)
		}

		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}

		resp := map[string]any{
			"candidates": []map[string]any{
				{
					"content": map[string]any{
						"parts": []map[string]any{{"text": replyText}},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(endpoint string) *GeminiClient {
	return NewGeminiClient(config.AIConfig{
		APIKey:   "test-key",
		Model:    "gemini-1.5-flash-latest",
		Endpoint: endpoint,
	})
}

func TestGeminiCompleteSuccess(t *testing.T) {
	srv := geminiTestServer(t, http.StatusOK, `{"action":"give_task_tip","response":"Plan your day."}`)
	defer srv.Close()

	c := newTestClient(srv.URL)
	got, err := c.Complete(context.Background(), "some prompt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"action":"give_task_tip","response":"Plan your day."}`
	if got != want {
		t.Errorf("completion mismatch: got %q, want %q", got, want)
	}
}

func TestGeminiCompleteRateLimited(t *testing.T) {
	srv := geminiTestServer(t, http.StatusTooManyRequests, "")
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}

func TestGeminiCompleteServerError(t *testing.T) {
	srv := geminiTestServer(t, http.StatusInternalServerError, "")
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable, got %v", err)
	}
}

func TestGeminiCompleteMissingKey(t *testing.T) {
	c := NewGeminiClient(config.AIConfig{})
	_, err := c.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable for missing key, got %v", err)
	}
}

func TestGeminiBreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv := geminiTestServer(t, http.StatusInternalServerError, "")
	defer srv.Close()

	c := newTestClient(srv.URL)
	for i := 0; i < 3; i++ {
		_, _ = c.Complete(context.Background(), "prompt")
	}

	// Breaker is now open; the failure must still read as unavailability.
	_, err := c.Complete(context.Background(), "prompt")
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("expected ErrModelUnavailable while breaker open, got %v", err)
	}
}

func TestNewClientProviderSelection(t *testing.T) {
	tests := []struct {
		provider string
		want     string
		wantErr  bool
	}{
		{"", "gemini", false},
		{"gemini", "gemini", false},
		{"openai", "openai", false},
		{"llama", "", true},
	}

	for _, tt := range tests {
		c, err := NewClient(config.AIConfig{Provider: tt.provider, APIKey: "k"})
		if tt.wantErr {
			if err == nil {
				t.Errorf("provider %q: expected error", tt.provider)
			}
			continue
		}
		if err != nil {
			t.Errorf("provider %q: unexpected error: %v", tt.provider, err)
			continue
		}
		if c.Provider() != tt.want {
			t.Errorf("provider %q: got %q, want %q", tt.provider, c.Provider(), tt.want)
		}
	}
}
