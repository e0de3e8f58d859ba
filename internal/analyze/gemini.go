package analyze

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/alnah/dictaphone/internal/apierr"
)

// Gemini API configuration.
const (
	// DefaultGeminiModel is the model the web component was built against.
	DefaultGeminiModel = "gemini-1.5-flash"

	geminiName = "Gemini"
)

// contentGenerator is the subset of *genai.Models used here.
// This allows injecting mocks in tests.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Compile-time interface compliance check.
var _ Analyzer = (*GeminiAnalyzer)(nil)

// GeminiAnalyzer sends text to Google's Gemini generateContent endpoint.
type GeminiAnalyzer struct {
	models     contentGenerator
	model      string
	baseURL    string
	httpClient *http.Client
}

// GeminiOption configures a GeminiAnalyzer.
type GeminiOption func(*GeminiAnalyzer)

// WithGeminiModel sets the model name.
func WithGeminiModel(model string) GeminiOption {
	return func(a *GeminiAnalyzer) {
		if model != "" {
			a.model = model
		}
	}
}

// WithGeminiBaseURL sets a custom base URL (for testing or proxies).
func WithGeminiBaseURL(url string) GeminiOption {
	return func(a *GeminiAnalyzer) {
		a.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithGeminiHTTPClient sets the HTTP client used by the SDK.
func WithGeminiHTTPClient(c *http.Client) GeminiOption {
	return func(a *GeminiAnalyzer) {
		a.httpClient = c
	}
}

// withContentGenerator replaces the SDK client (for testing).
func withContentGenerator(g contentGenerator) GeminiOption {
	return func(a *GeminiAnalyzer) {
		a.models = g
	}
}

// NewGeminiAnalyzer creates a GeminiAnalyzer.
// Returns ErrEmptyAPIKey if apiKey is empty.
func NewGeminiAnalyzer(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiAnalyzer, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}

	a := &GeminiAnalyzer{model: DefaultGeminiModel}
	for _, opt := range opts {
		opt(a)
	}
	if a.models != nil {
		return a, nil
	}

	// Create HTTP client after options are applied.
	if a.httpClient == nil {
		a.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: a.httpClient,
	}
	if a.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: a.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	a.models = client.Models
	return a, nil
}

// Name returns "Gemini".
func (a *GeminiAnalyzer) Name() string {
	return geminiName
}

// Analyze sends text as one user content part and returns the text of the
// first part of the first candidate.
func (a *GeminiAnalyzer) Analyze(ctx context.Context, text string) (string, error) {
	resp, err := a.models.GenerateContent(ctx, a.model, genai.Text(text), nil)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini returned no candidates: %w", apierr.ErrNoResponse)
	}
	return firstPartText(resp.Candidates[0]), nil
}

// firstPartText mirrors candidates[0].content.parts[0].text with a
// placeholder for anything missing or empty.
func firstPartText(c *genai.Candidate) string {
	if c == nil || c.Content == nil || len(c.Content.Parts) == 0 || c.Content.Parts[0] == nil {
		return NoContent
	}
	if t := c.Content.Parts[0].Text; t != "" {
		return t
	}
	return NoContent
}

// classifyGeminiError maps Gemini API errors to apierr sentinel errors.
func classifyGeminiError(err error) error {
	if err == nil {
		return nil
	}

	if code, msg, ok := geminiAPIError(err); ok {
		switch {
		case code == http.StatusTooManyRequests:
			if strings.Contains(msg, "billing") {
				return fmt.Errorf("%s: %w", msg, apierr.ErrQuotaExceeded)
			}
			return fmt.Errorf("%s: %w", msg, apierr.ErrRateLimit)
		case code == http.StatusUnauthorized, code == http.StatusForbidden:
			return fmt.Errorf("%s: %w", msg, apierr.ErrAuthFailed)
		case code == http.StatusBadRequest && strings.Contains(msg, "API key"):
			// Gemini reports an invalid key as 400 INVALID_ARGUMENT.
			return fmt.Errorf("%s: %w", msg, apierr.ErrAuthFailed)
		case code == http.StatusRequestTimeout, code == http.StatusGatewayTimeout:
			return fmt.Errorf("%s: %w", msg, apierr.ErrTimeout)
		case code >= 500:
			return fmt.Errorf("%s: %w", msg, apierr.ErrUnavailable)
		case code >= 400:
			return fmt.Errorf("%s: %w", msg, apierr.ErrBadRequest)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("request timed out: %w", apierr.ErrTimeout)
	}

	return err
}

// geminiAPIError extracts status and message from a genai.APIError,
// whether it was returned by value or by pointer.
func geminiAPIError(err error) (int, string, bool) {
	var v genai.APIError
	if errors.As(err, &v) {
		return v.Code, v.Message, true
	}
	var p *genai.APIError
	if errors.As(err, &p) && p != nil {
		return p.Code, p.Message, true
	}
	return 0, "", false
}
