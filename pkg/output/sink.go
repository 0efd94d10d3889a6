package output

import (
	"io"
	"net/http"
)

// Sink is the destination an Output writes to. Flush must push everything
// written so far to the consumer.
type Sink interface {
	io.Writer
	Flush() error
}

// Capable is implemented by sinks that know whether they can render styled
// output (a terminal, a browser configured for it).
type Capable interface {
	SupportsDecoration() bool
}

// SupportsDecoration reports the decoration capability of s, false when unknown.
func SupportsDecoration(s Sink) bool {
	if c, ok := s.(Capable); ok {
		return c.SupportsDecoration()
	}
	return false
}

// WriterSink adapts an io.Writer into a Sink.
type WriterSink struct {
	w         io.Writer
	decorated bool
}

// NewWriterSink wraps w. Flush forwards to w when it can flush (bufio.Writer,
// http.Flusher); otherwise writes are assumed to be unbuffered.
func NewWriterSink(w io.Writer, decorated bool) *WriterSink {
	return &WriterSink{w: w, decorated: decorated}
}

func (s *WriterSink) Write(p []byte) (int, error) { return s.w.Write(p) }

// Flush implements Sink.
func (s *WriterSink) Flush() error {
	switch f := s.w.(type) {
	case interface{ Flush() error }:
		return f.Flush()
	case http.Flusher:
		f.Flush()
	}
	return nil
}

// SupportsDecoration implements Capable.
func (s *WriterSink) SupportsDecoration() bool { return s.decorated }
