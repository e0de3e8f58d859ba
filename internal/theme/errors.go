package theme

import "errors"

// ErrUnknown indicates an invalid theme name was specified.
var ErrUnknown = errors.New("unknown theme")
