package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/linnemanlabs/supportflow/internal/resolution"
)

func testRequest() *resolution.DraftRequest {
	return &resolution.DraftRequest{
		Complaint:     "How do I export my data?",
		Score:         3,
		PolicyContext: "Standard Support Policy",
		Tone:          resolution.ToneProfessional,
	}
}

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New("or-key", "", srv.URL+"/api/v1/")
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestDraft_Success(t *testing.T) {
	t.Parallel()

	var got openai.ChatCompletionRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer or-key" {
			t.Errorf("Authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		writeJSON(w, http.StatusOK, `{
			"id": "gen-1",
			"object": "chat.completion",
			"model": "google/gemini-2.0-flash-lite-preview-02-05:free",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "  Dear Customer,\n\nHere is how.  "}, "finish_reason": "stop"}]
		}`)
	})

	text, err := c.Draft(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	// returned verbatim, surrounding whitespace included
	if text != "  Dear Customer,\n\nHere is how.  " {
		t.Errorf("Draft = %q", text)
	}

	if got.Model != DefaultModel {
		t.Errorf("model = %q, want %q", got.Model, DefaultModel)
	}
	if len(got.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(got.Messages))
	}
	if got.Messages[0].Role != openai.ChatMessageRoleSystem || got.Messages[0].Content != resolution.SystemPrompt {
		t.Errorf("system message = %+v", got.Messages[0])
	}
	if !strings.Contains(got.Messages[1].Content, "professional and helpful") {
		t.Errorf("user prompt missing tone: %q", got.Messages[1].Content)
	}
}

func TestDraft_Failures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		want   resolution.FailureReason
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"message":"slow down","type":"rate_limit","code":429}}`, resolution.ReasonUnavailable},
		{"server error", http.StatusBadGateway, `{"error":{"message":"upstream","code":502}}`, resolution.ReasonUnavailable},
		{"no choices", http.StatusOK, `{"id":"gen-2","choices":[]}`, resolution.ReasonMalformed},
		{"empty content", http.StatusOK, `{"id":"gen-3","choices":[{"index":0,"message":{"role":"assistant","content":""},"finish_reason":"length"}]}`, resolution.ReasonMalformed},
		{"blank content", http.StatusOK, `{"id":"gen-4","choices":[{"index":0,"message":{"role":"assistant","content":" \n\t "},"finish_reason":"stop"}]}`, resolution.ReasonMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			_, err := c.Draft(context.Background(), testRequest())
			var df *resolution.DraftingFailure
			if !errors.As(err, &df) {
				t.Fatalf("err = %v, want *DraftingFailure", err)
			}
			if df.Reason != tt.want || df.Provider != ProviderName {
				t.Errorf("failure = %+v, want reason %q", df, tt.want)
			}
		})
	}
}

func TestDraft_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Draft(ctx, testRequest())
	var df *resolution.DraftingFailure
	if !errors.As(err, &df) || df.Reason != resolution.ReasonTimeout {
		t.Errorf("err = %v, want timeout DraftingFailure", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	c := New("k", "", "")
	if c.Model() != DefaultModel || c.Name() != ProviderName {
		t.Errorf("defaults = %q/%q", c.Name(), c.Model())
	}
	var _ resolution.Drafter = c
}
