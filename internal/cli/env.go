package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/alnah/dictaphone/internal/analyze"
	"github.com/alnah/dictaphone/internal/config"
	"github.com/alnah/dictaphone/internal/render"
	"github.com/alnah/dictaphone/internal/session"
	"github.com/alnah/dictaphone/internal/tui"
)

// Env holds injectable dependencies for CLI commands.
// This is the central injection point for testing CLI commands in isolation.
//
// All fields have sensible defaults via DefaultEnv(). Tests can override
// specific fields using the With* options or by creating a custom Env.
//
// Env must not be nil when passed to command functions. Use DefaultEnv()
// or NewEnv() to create a valid instance.
type Env struct {
	// I/O and environment
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time

	// Factories for domain objects
	ConfigLoader    ConfigLoader
	AnalyzerFactory AnalyzerFactory
	ChatRunner      ChatRunner
}

// ConfigLoader loads and provides access to configuration.
type ConfigLoader interface {
	Load() (config.Config, error)
}

// AnalyzerFactory creates upstream analyzers.
// An empty model selects the provider's default.
type AnalyzerFactory interface {
	NewAnalyzer(ctx context.Context, provider Provider, apiKey, model string) (analyze.Analyzer, error)
}

// ChatRunner runs the interactive chat until the user quits and returns
// the final session state.
// This allows CLI tests to skip the terminal program.
type ChatRunner interface {
	RunChat(ctx context.Context, a analyze.Analyzer, r *render.Renderer, in io.Reader, out io.Writer) (session.State, error)
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithStdin sets the stdin reader.
func WithStdin(r io.Reader) EnvOption {
	return func(e *Env) {
		e.Stdin = r
	}
}

// WithStdout sets the stdout writer.
func WithStdout(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stdout = w
	}
}

// WithStderr sets the stderr writer.
func WithStderr(w io.Writer) EnvOption {
	return func(e *Env) {
		e.Stderr = w
	}
}

// WithGetenv sets the environment variable getter.
func WithGetenv(fn func(string) string) EnvOption {
	return func(e *Env) {
		e.Getenv = fn
	}
}

// WithNow sets the time provider.
func WithNow(fn func() time.Time) EnvOption {
	return func(e *Env) {
		e.Now = fn
	}
}

// WithConfigLoader sets the config loader.
func WithConfigLoader(l ConfigLoader) EnvOption {
	return func(e *Env) {
		e.ConfigLoader = l
	}
}

// WithAnalyzerFactory sets the analyzer factory.
func WithAnalyzerFactory(f AnalyzerFactory) EnvOption {
	return func(e *Env) {
		e.AnalyzerFactory = f
	}
}

// WithChatRunner sets the chat runner.
func WithChatRunner(r ChatRunner) EnvOption {
	return func(e *Env) {
		e.ChatRunner = r
	}
}

// DefaultEnv returns an Env with production defaults.
func DefaultEnv() *Env {
	return &Env{
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
		Getenv:          os.Getenv,
		Now:             time.Now,
		ConfigLoader:    &defaultConfigLoader{},
		AnalyzerFactory: &defaultAnalyzerFactory{},
		ChatRunner:      &defaultChatRunner{},
	}
}

// NewEnv creates an Env with the given options applied to defaults.
func NewEnv(opts ...EnvOption) *Env {
	env := DefaultEnv()
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// ---------------------------------------------------------------------------
// Default implementations - delegate to real packages
// ---------------------------------------------------------------------------

// defaultConfigLoader implements ConfigLoader using the config package.
type defaultConfigLoader struct{}

func (defaultConfigLoader) Load() (config.Config, error) {
	return config.Load()
}

// defaultAnalyzerFactory builds the SDK-backed analyzer for a provider.
type defaultAnalyzerFactory struct{}

func (defaultAnalyzerFactory) NewAnalyzer(ctx context.Context, provider Provider, apiKey, model string) (analyze.Analyzer, error) {
	if provider.OrDefault().IsOpenAI() {
		a, err := analyze.NewOpenAIAnalyzer(apiKey, analyze.WithOpenAIModel(model))
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	a, err := analyze.NewGeminiAnalyzer(ctx, apiKey, analyze.WithGeminiModel(model))
	if err != nil {
		return nil, err
	}
	return a, nil
}

// defaultChatRunner runs the bubbletea program.
type defaultChatRunner struct{}

func (defaultChatRunner) RunChat(ctx context.Context, a analyze.Analyzer, r *render.Renderer, in io.Reader, out io.Writer) (session.State, error) {
	// Upstream failures were already shown in the transcript; only a
	// program failure is returned.
	m, err := tui.Run(ctx, a, r, in, out)
	if err != nil {
		return session.State{}, err
	}
	return m.State(), nil
}
