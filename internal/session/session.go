// Package session holds the local UI state of one dictaphone surface and
// the pure reducer that moves it between Idle, Loading, Success and Error.
//
// Every surface (ask, chat, serve) drives the same reducer, so the rules
// for blank input, overlapping submits and stale results live in one place.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/alnah/dictaphone/internal/analyze"
	"github.com/alnah/dictaphone/internal/apierr"
	"github.com/alnah/dictaphone/internal/format"
)

// User-facing messages.
const (
	MsgEmptyInput = "Please enter some text."
	msgNoResponse = "No response received from %s."
	msgCommFailed = "An error occurred while communicating with %s."
)

// DefaultProvider is the display name used when State.Provider is empty.
const DefaultProvider = "Gemini"

// ---------------------------------------------------------------------------
// Status
// ---------------------------------------------------------------------------

// Status is the phase of the request cycle.
type Status int

// Status values. Idle is the zero value.
const (
	Idle Status = iota
	Loading
	Success
	Error
)

// String returns a lower-case label, used in logs and the JSON API.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// ---------------------------------------------------------------------------
// State
// ---------------------------------------------------------------------------

// Exchange is one completed prompt/reply pair of the chat transcript.
type Exchange struct {
	Prompt string
	Reply  string
}

// State is a value; Reduce never mutates its argument.
type State struct {
	Status Status
	// Input is the current text in the input box. It is kept after a
	// submit so the user can edit and resend.
	Input string
	// Pending is the prompt of the in-flight request.
	Pending string
	// Response is the formatted text of the last successful reply.
	Response string
	// Message is the user-facing error line, set only in Error.
	Message    string
	Transcript []Exchange
	// Provider is the upstream display name used in error messages.
	Provider string
}

// New returns an Idle state for the given provider display name.
func New(provider string) State {
	return State{Provider: provider}
}

// Busy reports whether a request is in flight. Surfaces disable their
// submit control while Busy.
func (s State) Busy() bool {
	return s.Status == Loading
}

func (s State) provider() string {
	if s.Provider == "" {
		return DefaultProvider
	}
	return s.Provider
}

// ---------------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------------

// Event is one input to Reduce.
type Event interface {
	event()
}

// InputChanged replaces the input box contents.
type InputChanged struct{ Text string }

// Submit asks to analyze the current input.
type Submit struct{}

// ResponseReceived carries the raw upstream reply.
type ResponseReceived struct{ Text string }

// ResponseFailed carries the upstream error.
type ResponseFailed struct{ Err error }

func (InputChanged) event()     {}
func (Submit) event()           {}
func (ResponseReceived) event() {}
func (ResponseFailed) event()   {}

// ---------------------------------------------------------------------------
// Reducer
// ---------------------------------------------------------------------------

// Reduce returns the state that follows s after ev.
//
//	Idle|Success|Error --Submit(blank)--> Error
//	Idle|Success|Error --Submit-->        Loading (clears Response and Message)
//	Loading --ResponseReceived-->         Success (Response = format.Response(raw))
//	Loading --ResponseFailed-->           Error
//
// Submit while Loading is ignored, as are results that arrive outside
// Loading.
func Reduce(s State, ev Event) State {
	switch e := ev.(type) {
	case InputChanged:
		s.Input = e.Text
		return s

	case Submit:
		if s.Status == Loading {
			return s
		}
		if isBlank(s.Input) {
			s.Status = Error
			s.Message = MsgEmptyInput
			return s
		}
		s.Status = Loading
		s.Pending = s.Input
		s.Response = ""
		s.Message = ""
		return s

	case ResponseReceived:
		if s.Status != Loading {
			return s
		}
		s.Status = Success
		s.Response = format.Response(e.Text)
		s.Transcript = append(s.Transcript[:len(s.Transcript):len(s.Transcript)],
			Exchange{Prompt: s.Pending, Reply: s.Response})
		s.Pending = ""
		return s

	case ResponseFailed:
		if s.Status != Loading {
			return s
		}
		s.Status = Error
		s.Message = failureMessage(e.Err, s.provider())
		s.Pending = ""
		return s
	}
	return s
}

// failureMessage maps an upstream error to the line shown to the user.
// The detailed error is for logs only.
func failureMessage(err error, provider string) string {
	if errors.Is(err, apierr.ErrNoResponse) {
		return fmt.Sprintf(msgNoResponse, provider)
	}
	return fmt.Sprintf(msgCommFailed, provider)
}

func isBlank(s string) bool {
	return strings.TrimFunc(s, unicode.IsSpace) == ""
}

// ---------------------------------------------------------------------------
// Run - one full cycle
// ---------------------------------------------------------------------------

// Run submits input and, if the state enters Loading, calls a and feeds
// the outcome back through Reduce. The returned error is the raw upstream
// error (nil on success or blank input), for logging and exit codes.
func Run(ctx context.Context, a analyze.Analyzer, s State, input string) (State, error) {
	s = Reduce(s, InputChanged{Text: input})
	s = Reduce(s, Submit{})
	if s.Status != Loading {
		return s, nil
	}

	raw, err := a.Analyze(ctx, s.Pending)
	if err != nil {
		return Reduce(s, ResponseFailed{Err: err}), err
	}
	return Reduce(s, ResponseReceived{Text: raw}), nil
}
