package cli

import (
	"context"
	"fmt"

	"github.com/alnah/dictaphone/internal/analyze"
	"github.com/alnah/dictaphone/internal/config"
	"github.com/alnah/dictaphone/internal/theme"
)

// settings is the effective configuration of one command run.
// Precedence: flags, then config file, then environment, then defaults.
type settings struct {
	provider  Provider
	model     string
	theme     theme.Name
	outputDir string
}

// flagSettings carries values already parsed from flags. Zero values mean
// "not set".
type flagSettings struct {
	provider Provider
	model    string
	theme    theme.Name
}

// parseFlagSettings validates the shared --provider and --theme flags.
func parseFlagSettings(provider, model, skin string) (flagSettings, error) {
	var fs flagSettings
	fs.model = model

	if provider != "" {
		p, err := ParseProvider(provider)
		if err != nil {
			return flagSettings{}, err
		}
		fs.provider = p
	}

	if skin != "" {
		n, err := theme.ParseName(skin)
		if err != nil {
			return flagSettings{}, err
		}
		fs.theme = n
	}

	return fs, nil
}

// resolveSettings merges flags over the loaded config.
// A config load failure is reported as a warning and defaults are used.
func resolveSettings(env *Env, fs flagSettings) (settings, error) {
	cfg, err := env.ConfigLoader.Load()
	if err != nil {
		fmt.Fprintf(env.Stderr, "Warning: failed to load config: %v\n", err)
	}

	s := settings{
		provider:  fs.provider,
		model:     fs.model,
		theme:     fs.theme,
		outputDir: config.ExpandPath(cfg.OutputDir),
	}

	if s.provider.IsZero() && cfg.Provider != "" {
		p, err := ParseProvider(cfg.Provider)
		if err != nil {
			return settings{}, fmt.Errorf("config %s: %w", config.KeyProvider, err)
		}
		s.provider = p
	}
	s.provider = s.provider.OrDefault()

	// A configured model belongs to the configured provider; an explicit
	// --provider that differs falls back to that provider's default model.
	if s.model == "" && (fs.provider.IsZero() || fs.provider.String() == cfg.Provider) {
		s.model = cfg.Model
	}

	if s.theme.IsZero() && cfg.Theme != "" {
		n, err := theme.ParseName(cfg.Theme)
		if err != nil {
			return settings{}, fmt.Errorf("config %s: %w", config.KeyTheme, err)
		}
		s.theme = n
	}
	s.theme = s.theme.OrDefault()

	return s, nil
}

// newAnalyzer resolves the API key and builds the analyzer for s.
func newAnalyzer(ctx context.Context, env *Env, s settings) (analyze.Analyzer, error) {
	key, err := s.provider.apiKey(env.Getenv)
	if err != nil {
		return nil, err
	}
	a, err := env.AnalyzerFactory.NewAnalyzer(ctx, s.provider, key, s.model)
	if err != nil {
		return nil, fmt.Errorf("create %s analyzer: %w", s.provider, err)
	}
	return a, nil
}
