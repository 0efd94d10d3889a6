package testutils

import (
	"bytes"
	"strings"
)

// Sink is an output.Sink that records what was written between flushes.
// Each flush closes one chunk, so tests can assert on write granularity.
type Sink struct {
	Decorated bool
	// WriteErr, when set, is returned by every Write.
	WriteErr error

	pending bytes.Buffer
	chunks  []string
	flushes int
}

// NewSink returns a recording sink with the given decoration capability.
func NewSink(decorated bool) *Sink {
	return &Sink{Decorated: decorated}
}

func (s *Sink) Write(p []byte) (int, error) {
	if s.WriteErr != nil {
		return 0, s.WriteErr
	}
	return s.pending.Write(p)
}

// Flush closes the current chunk.
func (s *Sink) Flush() error {
	s.flushes++
	s.chunks = append(s.chunks, s.pending.String())
	s.pending.Reset()
	return nil
}

// SupportsDecoration implements output.Capable.
func (s *Sink) SupportsDecoration() bool { return s.Decorated }

// Chunks returns the flushed chunks in order.
func (s *Sink) Chunks() []string { return append([]string(nil), s.chunks...) }

// Pending returns bytes written but not flushed yet.
func (s *Sink) Pending() string { return s.pending.String() }

// String returns everything flushed so far.
func (s *Sink) String() string { return strings.Join(s.chunks, "") }
