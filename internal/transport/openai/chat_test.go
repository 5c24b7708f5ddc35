package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/kailas-cloud/policyqa/internal/domain"
)

func newTestChat(url string) *Chat {
	cfg := testConfig(url)
	cfg.Model = "gemini-2.0-flash"
	return NewChat(&ChatConfig{Config: cfg, Temperature: 0.1, MaxTokens: 1000})
}

func TestChat_Complete(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req struct {
			Model       string  `json:"model"`
			Temperature float32 `json:"temperature"`
			MaxTokens   int     `json:"max_tokens"`
			Messages    []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gemini-2.0-flash" || req.MaxTokens != 1000 || req.Temperature < 0.09 || req.Temperature > 0.11 {
			t.Errorf("unexpected request settings %+v", req)
		}
		if len(req.Messages) != 1 || req.Messages[0].Role != "user" || req.Messages[0].Content != "prompt text" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  req.Model,
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": "  Employees get 20 days.\n"},
				"finish_reason": "stop",
			}},
			"usage": map[string]any{"prompt_tokens": 120, "completion_tokens": 8, "total_tokens": 128},
		})
	})

	c := newTestChat(srv.URL)
	got, err := c.Complete(context.Background(), "prompt text")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if got.Text != "Employees get 20 days." {
		t.Errorf("text = %q", got.Text)
	}
	if got.PromptTokens != 120 || got.CompletionTokens != 8 {
		t.Errorf("unexpected usage %+v", got)
	}
	if c.Model() != "gemini-2.0-flash" {
		t.Errorf("model = %q", c.Model())
	}
}

func TestChat_EmptyChoices(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"id": "x", "choices": []any{}})
	})

	_, err := newTestChat(srv.URL).Complete(context.Background(), "q")
	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Fatalf("expected ErrChatProviderError, got %v", err)
	}
}

func TestChat_APIError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error": map[string]any{"message": "model overloaded"},
		})
	})

	_, err := newTestChat(srv.URL).Complete(context.Background(), "q")
	if !errors.Is(err, domain.ErrChatProviderError) {
		t.Fatalf("expected ErrChatProviderError, got %v", err)
	}
}

func TestChat_MissingAPIKey(t *testing.T) {
	c := NewChat(&ChatConfig{Config: Config{Model: "m"}})
	if _, err := c.Complete(context.Background(), "q"); !errors.Is(err, domain.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestChat_HealthCheck(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		writeJSON(w, http.StatusOK, map[string]any{"object": "list", "data": []any{}})
	})

	if err := newTestChat(srv.URL).HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
