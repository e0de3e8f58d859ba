package format

// Exports for testing. These expose the individual rewrite steps so
// black-box tests can compose them in other orders.
var (
	BreakSentences = breakSentences
	SplitGlued     = splitGlued
	Trim           = trim
)
