package process

import (
	"errors"
	"fmt"
)

// ErrNotRegistered is returned when the invocation names no registered command.
var ErrNotRegistered = errors.New("command not registered")

// ExitError reports a command that exited with a non-zero status.
type ExitError struct {
	Command string
	Code    int
	Err     error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", e.Command, e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns the process exit status.
func (e *ExitError) ExitCode() int { return e.Code }
