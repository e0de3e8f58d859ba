// Package tui is the interactive terminal chat: a textarea for the prompt,
// a scrolling transcript rendered in the selected skin, and a spinner
// while a request is in flight.
package tui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alnah/dictaphone/internal/analyze"
	"github.com/alnah/dictaphone/internal/format"
	"github.com/alnah/dictaphone/internal/render"
	"github.com/alnah/dictaphone/internal/session"
)

const (
	placeholder  = "Type something here..."
	helpLine     = "ctrl+s analyze • esc quit"
	inputHeight  = 3
	chromeHeight = inputHeight + 4 // header, status, two separators
	defaultWidth = 80
	defaultRows  = 24
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// resultMsg carries the outcome of one upstream call back into Update.
type resultMsg struct {
	text string
	err  error
}

// Model is the bubbletea model for the chat command.
type Model struct {
	ctx      context.Context
	analyzer analyze.Analyzer
	renderer *render.Renderer
	now      func() time.Time

	state   session.State
	lastErr error
	started time.Time

	input    textarea.Model
	spinner  spinner.Model
	viewport viewport.Model
	width    int
	height   int
}

// Option configures a Model.
type Option func(*Model)

// withNow overrides the clock (for testing).
func withNow(now func() time.Time) Option {
	return func(m *Model) {
		m.now = now
	}
}

// New creates a chat model. ctx bounds every upstream call.
func New(ctx context.Context, a analyze.Analyzer, r *render.Renderer, opts ...Option) Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetHeight(inputHeight)
	ta.SetWidth(defaultWidth)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		analyzer: a,
		renderer: r,
		now:      time.Now,
		state:    session.New(a.Name()),
		input:    ta,
		spinner:  sp,
		viewport: viewport.New(defaultWidth, defaultRows-chromeHeight),
		width:    defaultWidth,
		height:   defaultRows,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.refresh()
	return m
}

// State returns the current session state.
func (m Model) State() session.State {
	return m.state
}

// Err returns the last upstream error, if the session ended in Error
// because of one.
func (m Model) Err() error {
	return m.lastErr
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlS:
			return m.submit()
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case resultMsg:
		return m.receive(msg), nil

	case spinner.TickMsg:
		if !m.state.Busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.state.Busy() {
		return m, nil
	}
	m.state = session.Reduce(m.state, session.InputChanged{Text: m.input.Value()})
	m.state = session.Reduce(m.state, session.Submit{})
	m.refresh()
	if !m.state.Busy() {
		return m, nil
	}

	m.started = m.now()
	m.lastErr = nil
	return m, tea.Batch(m.spinner.Tick, m.analyze(m.state.Pending))
}

func (m Model) analyze(text string) tea.Cmd {
	ctx, a := m.ctx, m.analyzer
	return func() tea.Msg {
		raw, err := a.Analyze(ctx, text)
		return resultMsg{text: raw, err: err}
	}
}

func (m Model) receive(msg resultMsg) Model {
	if msg.err != nil {
		m.state = session.Reduce(m.state, session.ResponseFailed{Err: msg.err})
		if m.state.Status == session.Error {
			m.lastErr = msg.err
		}
	} else {
		m.state = session.Reduce(m.state, session.ResponseReceived{Text: msg.text})
		if m.state.Status == session.Success {
			m.input.Reset()
		}
	}
	m.refresh()
	return m
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.input.SetWidth(width)
	m.viewport.Width = width
	m.viewport.Height = max(height-chromeHeight, 1)
	m.renderer.SetWidth(width)
	m.refresh()
}

// refresh re-renders the transcript into the viewport.
func (m *Model) refresh() {
	m.viewport.SetContent(m.renderer.Render(m.state))
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m Model) View() string {
	header := headerStyle.Render(fmt.Sprintf("Dictaphone · %s · %s", m.analyzer.Name(), m.renderer.Skin()))

	status := helpStyle.Render(helpLine)
	if m.state.Busy() {
		status = fmt.Sprintf("%s %s %s", m.spinner.View(), render.LoadingLabel, format.Duration(m.now().Sub(m.started)))
	}

	return header + "\n\n" + m.viewport.View() + "\n\n" + status + "\n" + m.input.View()
}

// Run starts the program on in/out and blocks until the user quits or
// ctx is canceled. It returns the final model.
func Run(ctx context.Context, a analyze.Analyzer, r *render.Renderer, in io.Reader, out io.Writer) (Model, error) {
	p := tea.NewProgram(New(ctx, a, r),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)
	final, err := p.Run()
	if err != nil {
		return Model{}, fmt.Errorf("run chat: %w", err)
	}
	m, ok := final.(Model)
	if !ok {
		return Model{}, fmt.Errorf("run chat: unexpected model %T", final)
	}
	return m, nil
}
