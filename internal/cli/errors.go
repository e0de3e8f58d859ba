package cli

import "errors"

// CLI-specific sentinel errors.
// These are validation/usage errors that don't belong to domain packages.

var (
	// ErrAPIKeyMissing indicates neither GEMINI_API_KEY nor VITE_GEMINI_API_KEY is set.
	ErrAPIKeyMissing = errors.New("GEMINI_API_KEY environment variable not set")

	// ErrOpenAIKeyMissing indicates OPENAI_API_KEY is not set.
	ErrOpenAIKeyMissing = errors.New("OPENAI_API_KEY environment variable not set")

	// ErrEmptyInput indicates there was no text to analyze.
	ErrEmptyInput = errors.New("empty input")

	// ErrFileNotFound indicates the specified input file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")

	// ErrUnknownConfigKey indicates config set/get was given an unsupported key.
	ErrUnknownConfigKey = errors.New("unknown config key")

	// ErrInvalidConfigValue indicates config set was given a value that
	// does not parse for its key.
	ErrInvalidConfigValue = errors.New("invalid config value")
)
