package analyze_test

// Notes:
// - OpenAI-specific tests for OpenAIAnalyzer.
// - Extraction and classification use an injected chat completer; one
//   httptest.Server round trip covers the real go-openai client wiring.

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/dictaphone/internal/analyze"
	"github.com/alnah/dictaphone/internal/apierr"
)

// ---------------------------------------------------------------------------
// Mock chat completer
// ---------------------------------------------------------------------------

type mockChatCompleter struct {
	resp openai.ChatCompletionResponse
	err  error

	mu    sync.Mutex
	calls []openai.ChatCompletionRequest
}

func (m *mockChatCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	m.mu.Unlock()
	return m.resp, m.err
}

func (m *mockChatCompleter) Calls() []openai.ChatCompletionRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]openai.ChatCompletionRequest(nil), m.calls...)
}

func choice(content string) openai.ChatCompletionChoice {
	return openai.ChatCompletionChoice{
		Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
	}
}

func newTestOpenAI(t *testing.T, cc *mockChatCompleter, opts ...analyze.OpenAIOption) *analyze.OpenAIAnalyzer {
	t.Helper()
	opts = append(opts, analyze.WithChatCompleter(cc))
	a, err := analyze.NewOpenAIAnalyzer("sk-test", opts...)
	if err != nil {
		t.Fatalf("NewOpenAIAnalyzer() error = %v", err)
	}
	return a
}

// ---------------------------------------------------------------------------
// TestNewOpenAIAnalyzer
// ---------------------------------------------------------------------------

func TestNewOpenAIAnalyzer_EmptyKey(t *testing.T) {
	t.Parallel()

	_, err := analyze.NewOpenAIAnalyzer("")
	if !errors.Is(err, analyze.ErrEmptyAPIKey) {
		t.Errorf("error = %v, want ErrEmptyAPIKey", err)
	}
}

func TestOpenAIAnalyzer_Name(t *testing.T) {
	t.Parallel()

	a := newTestOpenAI(t, &mockChatCompleter{})
	if got := a.Name(); got != "OpenAI" {
		t.Errorf("Name() = %q, want %q", got, "OpenAI")
	}
}

// ---------------------------------------------------------------------------
// TestOpenAIAnalyzer_Analyze - Response extraction
// ---------------------------------------------------------------------------

func TestOpenAIAnalyzer_Analyze(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		choices []openai.ChatCompletionChoice
		want    string
		wantErr error
	}{
		{name: "first choice", choices: []openai.ChatCompletionChoice{choice("one"), choice("two")}, want: "one"},
		{name: "empty content uses placeholder", choices: []openai.ChatCompletionChoice{choice("")}, want: analyze.NoContent},
		{name: "no choices", choices: nil, wantErr: apierr.ErrNoResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cc := &mockChatCompleter{resp: openai.ChatCompletionResponse{Choices: tt.choices}}
			got, err := newTestOpenAI(t, cc).Analyze(context.Background(), "hi")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Analyze() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Analyze() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Analyze() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOpenAIAnalyzer_SendsSingleUserMessage(t *testing.T) {
	t.Parallel()

	cc := &mockChatCompleter{resp: openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{choice("ok")}}}
	a := newTestOpenAI(t, cc, analyze.WithOpenAIModel("gpt-test"))

	if _, err := a.Analyze(context.Background(), "Summarize this"); err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	calls := cc.Calls()
	if len(calls) != 1 {
		t.Fatalf("CreateChatCompletion calls = %d, want 1", len(calls))
	}
	req := calls[0]
	if req.Model != "gpt-test" {
		t.Errorf("model = %q, want %q", req.Model, "gpt-test")
	}
	if len(req.Messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(req.Messages))
	}
	if req.Messages[0].Role != openai.ChatMessageRoleUser || req.Messages[0].Content != "Summarize this" {
		t.Errorf("message = %+v, want user message with input text", req.Messages[0])
	}
}

// ---------------------------------------------------------------------------
// TestClassifyOpenAIError - Mapping to apierr sentinels
// ---------------------------------------------------------------------------

func TestClassifyOpenAIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"rate limit", &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}, apierr.ErrRateLimit},
		{"quota", &openai.APIError{HTTPStatusCode: 429, Message: "You exceeded your current quota"}, apierr.ErrQuotaExceeded},
		{"payment required", &openai.APIError{HTTPStatusCode: 402, Message: "pay"}, apierr.ErrQuotaExceeded},
		{"unauthorized", &openai.APIError{HTTPStatusCode: 401, Message: "invalid key"}, apierr.ErrAuthFailed},
		{"request timeout", &openai.APIError{HTTPStatusCode: 408, Message: "timeout"}, apierr.ErrTimeout},
		{"server error", &openai.APIError{HTTPStatusCode: 500, Message: "oops"}, apierr.ErrUnavailable},
		{"bad request", &openai.APIError{HTTPStatusCode: 400, Message: "bad"}, apierr.ErrBadRequest},
		{"request error 503", &openai.RequestError{HTTPStatusCode: 503, Err: errors.New("unavailable")}, apierr.ErrUnavailable},
		{"deadline exceeded", context.DeadlineExceeded, apierr.ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := analyze.ClassifyOpenAIError(tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("ClassifyOpenAIError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClassifyOpenAIError_PassThrough(t *testing.T) {
	t.Parallel()

	if got := analyze.ClassifyOpenAIError(nil); got != nil {
		t.Errorf("ClassifyOpenAIError(nil) = %v, want nil", got)
	}

	plain := errors.New("dial tcp: connection refused")
	if got := analyze.ClassifyOpenAIError(plain); got != plain {
		t.Errorf("ClassifyOpenAIError(plain) = %v, want it unchanged", got)
	}
}

// ---------------------------------------------------------------------------
// TestOpenAIAnalyzer_HTTP - Real SDK against a fake endpoint
// ---------------------------------------------------------------------------

func TestOpenAIAnalyzer_HTTP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		body       any
		want       string
		wantErr    error
		wantAuthOK bool
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body: map[string]any{
				"id":     "chatcmpl-test",
				"object": "chat.completion",
				"model":  analyze.DefaultOpenAIModel,
				"choices": []map[string]any{{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": "Sure.Here it is"},
					"finish_reason": "stop",
				}},
			},
			want: "Sure.Here it is",
		},
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    map[string]any{"error": map[string]any{"message": "Incorrect API key provided", "type": "invalid_request_error"}},
			wantErr: apierr.ErrAuthFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var (
				mu   sync.Mutex
				auth []string
			)
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				mu.Lock()
				auth = append(auth, r.Header.Get("Authorization"))
				mu.Unlock()

				if r.URL.Path != "/v1/chat/completions" {
					http.NotFound(w, r)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(tt.body)
			}))
			t.Cleanup(srv.Close)

			a, err := analyze.NewOpenAIAnalyzer("sk-test",
				analyze.WithOpenAIBaseURL(srv.URL+"/v1"),
				analyze.WithOpenAIHTTPClient(srv.Client()),
			)
			if err != nil {
				t.Fatalf("NewOpenAIAnalyzer() error = %v", err)
			}

			got, err := a.Analyze(context.Background(), "hello")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Analyze() error = %v, want %v", err, tt.wantErr)
				}
			} else {
				if err != nil {
					t.Fatalf("Analyze() error = %v", err)
				}
				if got != tt.want {
					t.Errorf("Analyze() = %q, want %q", got, tt.want)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if len(auth) != 1 || auth[0] != "Bearer sk-test" {
				t.Errorf("Authorization headers = %v, want [Bearer sk-test]", auth)
			}
		})
	}
}
