// Package analyze sends user text to an upstream generative-language API
// and returns the raw reply text. Formatting the reply is the caller's job.
package analyze

import (
	"context"
	"time"
)

// Analyzer forwards text to an upstream model.
type Analyzer interface {
	// Analyze sends text as a single user turn and returns the reply text.
	// Returns NoContent when the model answered with an empty first part,
	// and an error wrapping apierr.ErrNoResponse when it answered nothing.
	Analyze(ctx context.Context, text string) (string, error)

	// Name returns the provider's display name, e.g. "Gemini".
	Name() string
}

// NoContent is returned in place of an empty first candidate part.
const NoContent = "No content returned."

// defaultHTTPTimeout bounds a single upstream request.
const defaultHTTPTimeout = 2 * time.Minute
