package analyze

// Exports for testing. These allow black-box tests to inject dependencies
// without modifying the public API.

// SDK replacements.
var (
	WithContentGenerator = withContentGenerator
	WithChatCompleter    = withChatCompleter
)

// Function exports for unit testing internal logic.
var (
	ClassifyGeminiError = classifyGeminiError
	ClassifyOpenAIError = classifyOpenAIError
)
