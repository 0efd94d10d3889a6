package http

import (
	"fmt"
	"net/http"

	"github.com/aretw0/consolehttp/pkg/output"
)

// Sink writes a session to an HTTP response, flushing through
// http.ResponseController.
type Sink struct {
	w         http.ResponseWriter
	rc        *http.ResponseController
	decorated bool
	written   bool
}

// NewSink wraps w. It fails with output.ErrSinkUnavailable when w, or any
// writer it wraps, cannot flush.
func NewSink(w http.ResponseWriter, decorated bool) (*Sink, error) {
	if !canFlush(w) {
		return nil, fmt.Errorf("%w: response writer does not support flushing", output.ErrSinkUnavailable)
	}
	return &Sink{w: w, rc: http.NewResponseController(w), decorated: decorated}, nil
}

func (s *Sink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	if n > 0 {
		s.written = true
	}
	return n, err
}

// Flush implements output.Sink.
func (s *Sink) Flush() error { return s.rc.Flush() }

// SupportsDecoration implements output.Capable.
func (s *Sink) SupportsDecoration() bool { return s.decorated }

// Written reports whether any byte was sent, which commits the headers.
func (s *Sink) Written() bool { return s.written }

func canFlush(w http.ResponseWriter) bool {
	for {
		switch t := w.(type) {
		case http.Flusher:
			return true
		case interface{ Unwrap() http.ResponseWriter }:
			w = t.Unwrap()
		default:
			return false
		}
	}
}
