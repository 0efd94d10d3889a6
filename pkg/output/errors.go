package output

import "errors"

var (
	// ErrSinkUnavailable is returned when the destination cannot be written to
	// (for instance an HTTP response writer without flush support).
	ErrSinkUnavailable = errors.New("output sink unavailable")

	// ErrConversion wraps a formatter failure. It is sticky: once a line fails,
	// every later content line is refused.
	ErrConversion = errors.New("output conversion failed")

	// ErrClosed is returned for writes after Close.
	ErrClosed = errors.New("output closed")

	// ErrDecorationCommitted is returned when decoration is changed after the
	// first byte reached the sink.
	ErrDecorationCommitted = errors.New("decoration already committed")
)
