package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// WithNow exposes withNow for testing.
func WithNow(now func() time.Time) Option {
	return withNow(now)
}

// ResultMsg builds the message an upstream call delivers to Update.
func ResultMsg(text string, err error) tea.Msg {
	return resultMsg{text: text, err: err}
}
