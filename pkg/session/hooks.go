package session

import (
	"context"
	"time"
)

// Event describes a session at a point of its lifecycle.
type Event struct {
	SessionID string
	Input     string
	Decorated bool
	// Lines and Bytes count what was written so far, frames included in Bytes.
	Lines    int
	Bytes    int
	Duration time.Duration
	// Err is the run result, set on close.
	Err error
}

// Hooks are optional lifecycle callbacks. They run on the session goroutine.
type Hooks struct {
	OnStart func(context.Context, *Event)
	OnLine  func(context.Context, *Event)
	OnClose func(context.Context, *Event)
}

// Merge returns Hooks calling every non-nil callback of hs in order.
func Merge(hs ...Hooks) Hooks {
	var merged Hooks
	for _, h := range hs {
		merged.OnStart = chain(merged.OnStart, h.OnStart)
		merged.OnLine = chain(merged.OnLine, h.OnLine)
		merged.OnClose = chain(merged.OnClose, h.OnClose)
	}
	return merged
}

func chain(a, b func(context.Context, *Event)) func(context.Context, *Event) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *Event) {
		a(ctx, e)
		b(ctx, e)
	}
}
