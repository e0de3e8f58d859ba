package cli

import (
	"context"
	"io"
	"sync"

	"github.com/alnah/dictaphone/internal/analyze"
	"github.com/alnah/dictaphone/internal/config"
	"github.com/alnah/dictaphone/internal/render"
	"github.com/alnah/dictaphone/internal/session"
)

// ---------------------------------------------------------------------------
// Mock ConfigLoader
// ---------------------------------------------------------------------------

type mockConfigLoader struct {
	LoadFunc func() (config.Config, error)

	mu        sync.Mutex
	loadCalls int
}

func (m *mockConfigLoader) Load() (config.Config, error) {
	m.mu.Lock()
	m.loadCalls++
	m.mu.Unlock()

	if m.LoadFunc != nil {
		return m.LoadFunc()
	}
	return config.Config{}, nil
}

func (m *mockConfigLoader) LoadCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadCalls
}

// ---------------------------------------------------------------------------
// Mock AnalyzerFactory + Analyzer
// ---------------------------------------------------------------------------

type mockAnalyzerFactory struct {
	NewAnalyzerFunc func(ctx context.Context, provider Provider, apiKey, model string) (analyze.Analyzer, error)

	mu    sync.Mutex
	calls []newAnalyzerCall

	// mockAnalyzer is returned when NewAnalyzerFunc is nil.
	mockAnalyzer *mockAnalyzer
}

type newAnalyzerCall struct {
	Provider Provider
	APIKey   string
	Model    string
}

func (m *mockAnalyzerFactory) NewAnalyzer(ctx context.Context, provider Provider, apiKey, model string) (analyze.Analyzer, error) {
	m.mu.Lock()
	m.calls = append(m.calls, newAnalyzerCall{Provider: provider, APIKey: apiKey, Model: model})
	m.mu.Unlock()

	if m.NewAnalyzerFunc != nil {
		return m.NewAnalyzerFunc(ctx, provider, apiKey, model)
	}
	if m.mockAnalyzer != nil {
		return m.mockAnalyzer, nil
	}
	return &mockAnalyzer{}, nil
}

func (m *mockAnalyzerFactory) NewAnalyzerCalls() []newAnalyzerCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]newAnalyzerCall(nil), m.calls...)
}

type mockAnalyzer struct {
	AnalyzeFunc func(ctx context.Context, text string) (string, error)
	NameValue   string

	mu           sync.Mutex
	analyzeCalls []string
}

// Compile-time interface compliance check.
var _ analyze.Analyzer = (*mockAnalyzer)(nil)

func (m *mockAnalyzer) Analyze(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.analyzeCalls = append(m.analyzeCalls, text)
	m.mu.Unlock()

	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, text)
	}
	return "Hello there.General Kenobi", nil
}

func (m *mockAnalyzer) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "Gemini"
}

func (m *mockAnalyzer) AnalyzeCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.analyzeCalls...)
}

// ---------------------------------------------------------------------------
// Mock ChatRunner
// ---------------------------------------------------------------------------

type mockChatRunner struct {
	RunChatFunc func(ctx context.Context, a analyze.Analyzer, r *render.Renderer) (session.State, error)

	mu    sync.Mutex
	calls []chatCall
}

type chatCall struct {
	Analyzer analyze.Analyzer
	Renderer *render.Renderer
}

func (m *mockChatRunner) RunChat(ctx context.Context, a analyze.Analyzer, r *render.Renderer, _ io.Reader, _ io.Writer) (session.State, error) {
	m.mu.Lock()
	m.calls = append(m.calls, chatCall{Analyzer: a, Renderer: r})
	m.mu.Unlock()

	if m.RunChatFunc != nil {
		return m.RunChatFunc(ctx, a, r)
	}
	return session.New(a.Name()), nil
}

func (m *mockChatRunner) RunChatCalls() []chatCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]chatCall(nil), m.calls...)
}
