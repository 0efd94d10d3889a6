package consolehttp

import "errors"

// ErrConfiguration is returned when a streaming setting cannot be applied or restored.
var ErrConfiguration = errors.New("configuration failure")
