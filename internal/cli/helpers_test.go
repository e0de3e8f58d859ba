package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/alnah/dictaphone/internal/config"
)

// ---------------------------------------------------------------------------
// syncBuffer - thread-safe bytes.Buffer for concurrent test output
// ---------------------------------------------------------------------------

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (n int, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// Compile-time check that syncBuffer implements io.Writer.
var _ io.Writer = (*syncBuffer)(nil)

// ---------------------------------------------------------------------------
// testMocks - convenience struct for grouping all mocks
// ---------------------------------------------------------------------------

type testMocks struct {
	configLoader *mockConfigLoader
	analyzers    *mockAnalyzerFactory
	analyzer     *mockAnalyzer
	chat         *mockChatRunner
	stdout       *syncBuffer
	stderr       *syncBuffer
}

func newTestMocks() *testMocks {
	a := &mockAnalyzer{}
	return &testMocks{
		configLoader: &mockConfigLoader{},
		analyzers:    &mockAnalyzerFactory{mockAnalyzer: a},
		analyzer:     a,
		chat:         &mockChatRunner{},
		stdout:       &syncBuffer{},
		stderr:       &syncBuffer{},
	}
}

// ---------------------------------------------------------------------------
// testEnv - creates a fully mocked Env for testing
// ---------------------------------------------------------------------------

// testEnvOptions configures a test environment.
type testEnvOptions struct {
	stdin  io.Reader
	getenv func(string) string
	now    func() time.Time
	mocks  *testMocks
}

// testEnvOption configures testEnv.
type testEnvOption func(*testEnvOptions)

func withTestStdin(s string) testEnvOption {
	return func(o *testEnvOptions) {
		o.stdin = strings.NewReader(s)
	}
}

func withTestGetenv(fn func(string) string) testEnvOption {
	return func(o *testEnvOptions) {
		o.getenv = fn
	}
}

func withTestNow(fn func() time.Time) testEnvOption {
	return func(o *testEnvOptions) {
		o.now = fn
	}
}

func withTestConfig(cfg config.Config) testEnvOption {
	return func(o *testEnvOptions) {
		o.mocks.configLoader.LoadFunc = func() (config.Config, error) {
			return cfg, nil
		}
	}
}

// testEnv creates a test Env with all dependencies mocked.
// Returns the Env and the mocks for assertions.
func testEnv(opts ...testEnvOption) (*Env, *testMocks) {
	options := &testEnvOptions{
		stdin:  strings.NewReader(""),
		getenv: defaultTestEnv,
		now:    fixedTime(time.Date(2026, 1, 26, 14, 30, 52, 0, time.UTC)),
		mocks:  newTestMocks(),
	}

	for _, opt := range opts {
		opt(options)
	}

	env := &Env{
		Stdin:           options.stdin,
		Stdout:          options.mocks.stdout,
		Stderr:          options.mocks.stderr,
		Getenv:          options.getenv,
		Now:             options.now,
		ConfigLoader:    options.mocks.configLoader,
		AnalyzerFactory: options.mocks.analyzers,
		ChatRunner:      options.mocks.chat,
	}

	return env, options.mocks
}

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// fixedTime returns a function that always returns the given time.
func fixedTime(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// steppedTime returns a clock that advances by step on every call.
func steppedTime(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := now
		now = now.Add(step)
		return t
	}
}

// staticEnv returns a getenv function that returns values from the given map.
func staticEnv(env map[string]string) func(string) string {
	return func(key string) string {
		return env[key]
	}
}

// defaultTestEnv returns API keys for both Gemini and OpenAI.
func defaultTestEnv(key string) string {
	switch key {
	case EnvGeminiAPIKey:
		return "test-gemini-key"
	case EnvOpenAIAPIKey:
		return "test-openai-key"
	default:
		return ""
	}
}

// execute runs cmd with args under ctx, the way main does.
func execute(ctx context.Context, cmd *cobra.Command, args ...string) error {
	cmd.SetArgs(args)
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return cmd.ExecuteContext(ctx)
}
