package analyze

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/alnah/dictaphone/internal/apierr"
)

// OpenAI API configuration.
const (
	DefaultOpenAIModel = "gpt-4o-mini"

	openAIName = "OpenAI"
)

// chatCompleter is an internal interface for OpenAI chat completion.
// *openai.Client implements this implicitly.
// This allows injecting mocks in tests.
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Compile-time interface compliance check.
var _ Analyzer = (*OpenAIAnalyzer)(nil)

// OpenAIAnalyzer sends text to OpenAI's chat completion API.
type OpenAIAnalyzer struct {
	client     chatCompleter
	model      string
	baseURL    string
	httpClient *http.Client
}

// OpenAIOption configures an OpenAIAnalyzer.
type OpenAIOption func(*OpenAIAnalyzer)

// WithOpenAIModel sets the model name.
func WithOpenAIModel(model string) OpenAIOption {
	return func(a *OpenAIAnalyzer) {
		if model != "" {
			a.model = model
		}
	}
}

// WithOpenAIBaseURL sets a custom base URL including the version path,
// e.g. "http://localhost:8080/v1".
func WithOpenAIBaseURL(url string) OpenAIOption {
	return func(a *OpenAIAnalyzer) {
		a.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithOpenAIHTTPClient sets the HTTP client used by the SDK.
func WithOpenAIHTTPClient(c *http.Client) OpenAIOption {
	return func(a *OpenAIAnalyzer) {
		a.httpClient = c
	}
}

// withChatCompleter sets a custom chat completer (for testing).
func withChatCompleter(cc chatCompleter) OpenAIOption {
	return func(a *OpenAIAnalyzer) {
		a.client = cc
	}
}

// NewOpenAIAnalyzer creates an OpenAIAnalyzer.
// Returns ErrEmptyAPIKey if apiKey is empty.
func NewOpenAIAnalyzer(apiKey string, opts ...OpenAIOption) (*OpenAIAnalyzer, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}

	a := &OpenAIAnalyzer{model: DefaultOpenAIModel}
	for _, opt := range opts {
		opt(a)
	}
	if a.client != nil {
		return a, nil
	}

	cfg := openai.DefaultConfig(apiKey)
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}
	if a.httpClient == nil {
		a.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	cfg.HTTPClient = a.httpClient
	a.client = openai.NewClientWithConfig(cfg)
	return a, nil
}

// Name returns "OpenAI".
func (a *OpenAIAnalyzer) Name() string {
	return openAIName
}

// Analyze sends text as a single user message and returns the content of
// the first choice.
func (a *OpenAIAnalyzer) Analyze(ctx context.Context, text string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: a.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices: %w", apierr.ErrNoResponse)
	}
	if content := resp.Choices[0].Message.Content; content != "" {
		return content, nil
	}
	return NoContent, nil
}

// classifyOpenAIError maps OpenAI API errors to apierr sentinel errors.
// Uses errors.As for robust error type checking instead of string matching.
func classifyOpenAIError(err error) error {
	if err == nil {
		return nil
	}

	// Check for typed API errors first (most reliable).
	code, msg := 0, ""
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		code, msg = apiErr.HTTPStatusCode, apiErr.Message
	case errors.As(err, &reqErr):
		code, msg = reqErr.HTTPStatusCode, reqErr.Error()
	}

	switch {
	case code == http.StatusTooManyRequests:
		// Distinguish between temporary rate limit and quota exceeded (billing issue).
		if strings.Contains(msg, "quota") || strings.Contains(msg, "billing") {
			return fmt.Errorf("%s: %w", msg, apierr.ErrQuotaExceeded)
		}
		return fmt.Errorf("%s: %w", msg, apierr.ErrRateLimit)
	case code == http.StatusPaymentRequired:
		return fmt.Errorf("%s: %w", msg, apierr.ErrQuotaExceeded)
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%s: %w", msg, apierr.ErrAuthFailed)
	case code == http.StatusRequestTimeout, code == http.StatusGatewayTimeout:
		return fmt.Errorf("%s: %w", msg, apierr.ErrTimeout)
	case code >= 500:
		return fmt.Errorf("%s: %w", msg, apierr.ErrUnavailable)
	case code >= 400:
		return fmt.Errorf("%s: %w", msg, apierr.ErrBadRequest)
	}

	// Check for context timeout/deadline exceeded.
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}
