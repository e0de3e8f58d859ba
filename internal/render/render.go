// Package render draws a session.State for the terminal in one of the
// theme skins: plain text, a chat transcript, or a dark card.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alnah/dictaphone/internal/session"
	"github.com/alnah/dictaphone/internal/theme"
)

// Labels shared with the web page.
const (
	ResultHeading = "Analysis Result:"
	LoadingLabel  = "Analyzing..."
	ErrorPrefix   = "Error: "
	UserSpeaker   = "You"
)

const defaultWidth = 80

// Palette is the 256-color scheme used by the chat and card skins.
type Palette struct {
	Text       lipgloss.Color
	Faint      lipgloss.Color
	Accent     lipgloss.Color
	Speaker    lipgloss.Color
	Error      lipgloss.Color
	CardBorder lipgloss.Color
	CardFill   lipgloss.Color
}

// DefaultPalette targets dark terminals.
var DefaultPalette = Palette{
	Text:       lipgloss.Color("252"),
	Faint:      lipgloss.Color("245"),
	Accent:     lipgloss.Color("75"),
	Speaker:    lipgloss.Color("114"),
	Error:      lipgloss.Color("196"),
	CardBorder: lipgloss.Color("240"),
	CardFill:   lipgloss.Color("235"),
}

type styles struct {
	heading lipgloss.Style
	faint   lipgloss.Style
	err     lipgloss.Style
	you     lipgloss.Style
	agent   lipgloss.Style
	card    lipgloss.Style
}

func buildStyles(r *lipgloss.Renderer, p Palette, width int) styles {
	return styles{
		heading: r.NewStyle().Bold(true).Foreground(p.Accent),
		faint:   r.NewStyle().Foreground(p.Faint).Italic(true),
		err:     r.NewStyle().Foreground(p.Error),
		you:     r.NewStyle().Bold(true).Foreground(p.Accent),
		agent:   r.NewStyle().Bold(true).Foreground(p.Speaker),
		card: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.CardBorder).
			Background(p.CardFill).
			Foreground(p.Text).
			Padding(0, 1).
			Width(width - 2),
	}
}

// Renderer draws states in one skin. It is not safe for concurrent use
// with different widths; create one per surface.
type Renderer struct {
	w       io.Writer
	skin    theme.Name
	width   int
	palette Palette
	lg      *lipgloss.Renderer
	st      styles
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithWidth sets the wrap width used by the card skin.
// Values below 20 are ignored.
func WithWidth(n int) Option {
	return func(r *Renderer) {
		if n >= 20 {
			r.width = n
		}
	}
}

// WithPalette overrides the color scheme.
func WithPalette(p Palette) Option {
	return func(r *Renderer) {
		r.palette = p
	}
}

// New creates a Renderer that writes to w. A zero skin selects
// theme.Default. Color support is detected from w, so a non-terminal
// writer gets plain ASCII.
func New(w io.Writer, skin theme.Name, opts ...Option) *Renderer {
	r := &Renderer{
		w:       w,
		skin:    skin.OrDefault(),
		width:   defaultWidth,
		palette: DefaultPalette,
		lg:      lipgloss.NewRenderer(w),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.st = buildStyles(r.lg, r.palette, r.width)
	return r
}

// Skin returns the theme in use.
func (r *Renderer) Skin() theme.Name {
	return r.skin
}

// SetWidth changes the wrap width, e.g. after a terminal resize.
func (r *Renderer) SetWidth(n int) {
	WithWidth(n)(r)
	r.st = buildStyles(r.lg, r.palette, r.width)
}

// Write renders s followed by a newline.
func (r *Renderer) Write(s session.State) error {
	out := r.Render(s)
	if out == "" {
		return nil
	}
	if _, err := fmt.Fprintln(r.w, out); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// Render returns the view of s in the renderer's skin. Idle with no
// transcript renders as the empty string.
func (r *Renderer) Render(s session.State) string {
	switch r.skin {
	case theme.ChatName:
		return r.chat(s)
	case theme.CardName:
		return r.card(s)
	default:
		return r.plain(s)
	}
}

// plain mirrors the bare page: an error line, or a heading over the
// unwrapped result.
func (r *Renderer) plain(s session.State) string {
	switch s.Status {
	case session.Loading:
		return LoadingLabel
	case session.Error:
		return ErrorPrefix + s.Message
	case session.Success:
		return ResultHeading + "\n\n" + s.Response
	}
	return ""
}

func (r *Renderer) chat(s session.State) string {
	agent := s.Provider
	if agent == "" {
		agent = session.DefaultProvider
	}

	// Prompts and replies stay unstyled: lipgloss pads multi-line blocks
	// to a common width, which would alter the formatted text.
	var blocks []string
	for _, ex := range s.Transcript {
		blocks = append(blocks,
			r.st.you.Render(UserSpeaker+":")+" "+ex.Prompt,
			r.st.agent.Render(agent+":")+"\n"+ex.Reply,
		)
	}

	switch s.Status {
	case session.Loading:
		blocks = append(blocks,
			r.st.you.Render(UserSpeaker+":")+" "+s.Pending,
			r.st.faint.Render(LoadingLabel),
		)
	case session.Error:
		blocks = append(blocks, r.st.err.Render(ErrorPrefix+s.Message))
	}
	return strings.Join(blocks, "\n\n")
}

func (r *Renderer) card(s session.State) string {
	switch s.Status {
	case session.Loading:
		return r.st.card.Render(r.st.faint.Render(LoadingLabel))
	case session.Error:
		return r.st.card.BorderForeground(r.palette.Error).Render(r.st.err.Render(ErrorPrefix + s.Message))
	case session.Success:
		return r.st.card.Render(r.st.heading.Render(ResultHeading) + "\n\n" + s.Response)
	}
	return ""
}
