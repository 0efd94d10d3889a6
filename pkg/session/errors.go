package session

import "errors"

var (
	// ErrSessionStarted is returned by Start on a session that already started.
	ErrSessionStarted = errors.New("session already started")
	// ErrSessionClosed is returned by Start and Close on a closed session.
	ErrSessionClosed = errors.New("session closed")
)
