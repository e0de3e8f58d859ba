package format

import (
	"regexp"
	"strings"
)

// space matches the characters ECMAScript treats as whitespace and line
// terminators. Go's \s only covers ASCII, which would leave NBSP and the
// Unicode separators between sentences untouched.
const space = `[\t\n\v\f\r \x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]`

var (
	// sentenceBoundary matches a terminal mark, optional whitespace, and the
	// capital that follows. RE2 has no look-ahead, so the capital is captured
	// and written back. Every match ends on a capital and starts on a mark,
	// so consecutive matches cannot overlap.
	sentenceBoundary = regexp.MustCompile(`([.!?])` + space + `*([A-Z])`)

	// glued matches a lower-case letter directly followed by an upper-case one.
	glued = regexp.MustCompile(`([a-z])([A-Z])`)
)

// Response makes raw upstream text easier to read by re-inserting the
// paragraph and sentence boundaries that generated text often loses.
//
// It applies, in order:
//  1. a blank line after '.', '!' or '?' when the next non-space
//     character is an upper-case letter (the spaces are dropped);
//  2. ". " between a lower-case letter and an upper-case letter that
//     touch ("helloWorld" becomes "hello. World");
//  3. trimming of leading and trailing whitespace.
//
// The order matters: step 2 adds ". X" sequences that step 1 would
// otherwise turn into paragraph breaks.
//
// This is a surface heuristic, not sentence segmentation. It misfires on
// abbreviations, camelCase identifiers and code, and applying it twice
// can change the result again. Response is pure and safe for concurrent use.
func Response(text string) string {
	return trim(splitGlued(breakSentences(text)))
}

func breakSentences(s string) string {
	return sentenceBoundary.ReplaceAllString(s, "$1\n\n$2")
}

func splitGlued(s string) string {
	return glued.ReplaceAllString(s, "$1. $2")
}

func trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// isSpace reports whether r is in the same set as the space class.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00a0', '\u1680', '\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}
