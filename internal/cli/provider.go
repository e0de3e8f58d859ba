package cli

import (
	"errors"
	"fmt"
)

// Provider names accepted by --provider and the provider config key.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// API key environment variables.
const (
	EnvGeminiAPIKey = "GEMINI_API_KEY"
	// EnvViteGeminiAPIKey is read when GEMINI_API_KEY is unset, so a .env
	// written for the browser build keeps working.
	EnvViteGeminiAPIKey = "VITE_GEMINI_API_KEY"
	EnvOpenAIAPIKey     = "OPENAI_API_KEY"
)

// Provider represents a validated upstream provider.
// The zero value means "not set"; use OrDefault before use.
type Provider struct {
	name string
}

// Compile-time interface compliance check.
var _ fmt.Stringer = Provider{}

// ErrInvalidProvider indicates an invalid provider name was specified.
var ErrInvalidProvider = errors.New("invalid provider")

// Pre-parsed provider constants for use in code.
var (
	GeminiProvider = Provider{name: ProviderGemini}
	OpenAIProvider = Provider{name: ProviderOpenAI}
)

var validProviders = map[string]bool{
	ProviderGemini: true,
	ProviderOpenAI: true,
}

// ParseProvider validates and parses a provider name string.
// Returns ErrInvalidProvider if the name is not recognized.
func ParseProvider(s string) (Provider, error) {
	if s == "" {
		return Provider{}, fmt.Errorf("provider cannot be empty: %w", ErrInvalidProvider)
	}
	if !validProviders[s] {
		return Provider{}, fmt.Errorf("unknown provider %q (use 'gemini' or 'openai'): %w", s, ErrInvalidProvider)
	}
	return Provider{name: s}, nil
}

// MustParseProvider parses a provider name, panicking if invalid.
// Use only for constants and tests.
func MustParseProvider(s string) Provider {
	p, err := ParseProvider(s)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the provider name string.
func (p Provider) String() string {
	return p.name
}

// IsZero returns true if no provider was set.
func (p Provider) IsZero() bool {
	return p.name == ""
}

// IsOpenAI returns true if this provider is OpenAI.
func (p Provider) IsOpenAI() bool {
	return p.name == ProviderOpenAI
}

// OrDefault returns the provider, or GeminiProvider if zero.
func (p Provider) OrDefault() Provider {
	if p.IsZero() {
		return GeminiProvider
	}
	return p
}

// apiKey reads the provider's key from getenv.
func (p Provider) apiKey(getenv func(string) string) (string, error) {
	if p.OrDefault().IsOpenAI() {
		if key := getenv(EnvOpenAIAPIKey); key != "" {
			return key, nil
		}
		return "", ErrOpenAIKeyMissing
	}
	if key := getenv(EnvGeminiAPIKey); key != "" {
		return key, nil
	}
	if key := getenv(EnvViteGeminiAPIKey); key != "" {
		return key, nil
	}
	return "", ErrAPIKeyMissing
}
