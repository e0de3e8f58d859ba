// Package theme names the presentation skins shared by the terminal and
// web renderers.
package theme

import (
	"fmt"
	"slices"
)

// Theme name constants.
const (
	Plain = "plain"
	Chat  = "chat"
	Card  = "card"
)

// ---------------------------------------------------------------------------
// Name type - represents a validated theme name
// ---------------------------------------------------------------------------

// Name represents a validated theme name.
// The zero value means "not set"; use OrDefault before rendering.
type Name struct {
	name string
}

// Pre-parsed theme names for use in code.
var (
	PlainName = Name{name: Plain}
	ChatName  = Name{name: Chat}
	CardName  = Name{name: Card}
)

// Default is the skin used when nothing is configured.
var Default = PlainName

// order is the canonical order used in help text and error messages.
var order = []string{Plain, Chat, Card}

// titles are the human labels shown in the web skin picker.
var titles = map[string]string{
	Plain: "Plain",
	Chat:  "Chat transcript",
	Card:  "Dark card",
}

// ParseName validates and parses a theme name string.
// Matching is exact: "Plain" and " plain" are rejected.
func ParseName(s string) (Name, error) {
	if s == "" {
		return Name{}, fmt.Errorf("theme name cannot be empty: %w", ErrUnknown)
	}
	if !slices.Contains(order, s) {
		return Name{}, fmt.Errorf("unknown theme %q (available: %v): %w", s, order, ErrUnknown)
	}
	return Name{name: s}, nil
}

// MustParseName parses a theme name, panicking if invalid.
// Use only for constants and tests.
func MustParseName(s string) Name {
	n, err := ParseName(s)
	if err != nil {
		panic(err)
	}
	return n
}

// String returns the theme name string.
func (n Name) String() string {
	return n.name
}

// Title returns a human label for the theme.
func (n Name) Title() string {
	return titles[n.OrDefault().name]
}

// IsZero reports whether no theme was set.
func (n Name) IsZero() bool {
	return n.name == ""
}

// OrDefault returns n, or Default when n is the zero value.
func (n Name) OrDefault() Name {
	if n.IsZero() {
		return Default
	}
	return n
}

// Names returns the available theme names in canonical order.
func Names() []string {
	return slices.Clone(order)
}

// All returns every theme as a parsed Name, in canonical order.
func All() []Name {
	all := make([]Name, len(order))
	for i, s := range order {
		all[i] = Name{name: s}
	}
	return all
}
