// Package app defines the console application a session drives, and adapters
// for plain functions and cobra command trees.
package app

import (
	"context"
	"errors"

	"github.com/aretw0/consolehttp/pkg/input"
	"github.com/aretw0/consolehttp/pkg/output"
)

// Application is a console program run once per session. It writes its lines
// to out and returns when the run is over. Output it produces after ctx is
// cancelled is discarded by the session.
type Application interface {
	Run(ctx context.Context, in *input.Input, out *output.Output) error
}

// Func adapts a function to an Application.
type Func func(ctx context.Context, in *input.Input, out *output.Output) error

// Run implements Application.
func (f Func) Run(ctx context.Context, in *input.Input, out *output.Output) error {
	return f(ctx, in, out)
}

// ExitCoder is implemented by errors carrying a process exit status.
type ExitCoder interface {
	ExitCode() int
}

// ExitCode maps a run result to an exit status: 0 for nil, the status of an
// ExitCoder in the chain, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ec ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	return 1
}
