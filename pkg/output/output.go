package output

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/consolehttp/pkg/formatter"
)

// Mode selects how a message is processed before it is written.
type Mode int

const (
	// ModeNormal renders the message through the formatter.
	ModeNormal Mode = iota
	// ModeRaw writes the message verbatim. The caller owns its markup.
	ModeRaw
	// ModePlain removes style tags and escape codes, bypassing decoration, and
	// passes the text through the plain escaper.
	ModePlain
)

// Verbosity orders how much output a session wants.
type Verbosity int

const (
	VerbosityQuiet Verbosity = iota
	VerbosityNormal
	VerbosityVerbose
	VerbosityVeryVerbose
	VerbosityDebug
)

// Output writes lines to a Sink, flushing after every write so a consumer
// reading incrementally sees each line as soon as it is produced.
//
// An Output is owned by a single session and is not safe for concurrent use.
type Output struct {
	sink      Sink
	formatter formatter.Formatter
	verbosity Verbosity
	onWrite   func(n int)
	escape    func(string) string

	committed bool
	closed    bool
	err       error
	lines     int
	bytes     int
}

// Option configures an Output.
type Option func(*Output)

// WithVerbosity sets the output verbosity (default VerbosityNormal).
func WithVerbosity(v Verbosity) Option {
	return func(o *Output) {
		o.verbosity = v
	}
}

// WithWriteHook registers a callback invoked with the byte count of every
// content line written.
func WithWriteHook(fn func(n int)) Option {
	return func(o *Output) {
		o.onWrite = fn
	}
}

// WithPlainEscaper sets the function applied to ModePlain text, e.g.
// html.EscapeString for HTML sinks.
func WithPlainEscaper(fn func(string) string) Option {
	return func(o *Output) {
		o.escape = fn
	}
}

// New creates an Output writing to sink through f.
func New(sink Sink, f formatter.Formatter, opts ...Option) *Output {
	o := &Output{
		sink:      sink,
		formatter: f,
		verbosity: VerbosityNormal,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Writeln formats msg and writes it followed by a newline.
func (o *Output) Writeln(msg string) error {
	return o.WritelnMode(msg, ModeNormal, VerbosityNormal)
}

// WritelnMode writes msg followed by a newline, processed according to mode.
// Messages above the output verbosity are dropped silently.
func (o *Output) WritelnMode(msg string, mode Mode, v Verbosity) error {
	if o.closed {
		return ErrClosed
	}
	if o.err != nil {
		return o.err
	}
	if v > o.verbosity {
		return nil
	}

	var text string
	switch mode {
	case ModeRaw:
		text = msg
	case ModePlain:
		text = formatter.StripTags(msg)
		if o.escape != nil {
			text = o.escape(text)
		}
	default:
		formatted, err := o.formatter.Format(msg)
		if err != nil {
			o.err = fmt.Errorf("%w: %w", ErrConversion, err)
			return o.err
		}
		text = formatted
	}

	n, err := o.emit(text + "\n")
	if err != nil {
		o.err = err
		return err
	}
	o.lines++
	if o.onWrite != nil {
		o.onWrite(n)
	}
	return nil
}

// WriteFrame writes a document boundary verbatim, regardless of verbosity or
// an earlier content failure.
func (o *Output) WriteFrame(markup string) error {
	if o.closed {
		return ErrClosed
	}
	_, err := o.emit(markup + "\n")
	return err
}

func (o *Output) emit(text string) (int, error) {
	n, err := io.WriteString(o.sink, text)
	if n > 0 {
		o.committed = true
		o.bytes += n
	}
	if err != nil {
		return n, fmt.Errorf("write: %w", err)
	}
	if err := o.sink.Flush(); err != nil {
		return n, fmt.Errorf("flush: %w", err)
	}
	return n, nil
}

// Close marks the output closed. Later writes return ErrClosed.
func (o *Output) Close() { o.closed = true }

// Closed reports whether Close was called.
func (o *Output) Closed() bool { return o.closed }

// SetDecorated changes decoration. It fails once output was committed to the sink.
func (o *Output) SetDecorated(decorated bool) error {
	if o.committed && decorated != o.formatter.IsDecorated() {
		return ErrDecorationCommitted
	}
	o.formatter.SetDecorated(decorated)
	return nil
}

// IsDecorated reports whether lines are rendered with styling.
func (o *Output) IsDecorated() bool { return o.formatter.IsDecorated() }

// Formatter returns the formatter, e.g. to register styles.
func (o *Output) Formatter() formatter.Formatter { return o.formatter }

// Verbosity returns the output verbosity.
func (o *Output) Verbosity() Verbosity { return o.verbosity }

// SetVerbosity changes the output verbosity.
func (o *Output) SetVerbosity(v Verbosity) { o.verbosity = v }

func (o *Output) IsQuiet() bool { return o.verbosity == VerbosityQuiet }
func (o *Output) IsVerbose() bool { return o.verbosity >= VerbosityVerbose }
func (o *Output) IsVeryVerbose() bool { return o.verbosity >= VerbosityVeryVerbose }
func (o *Output) IsDebug() bool { return o.verbosity >= VerbosityDebug }

// Committed reports whether any byte reached the sink.
func (o *Output) Committed() bool { return o.committed }

// Err returns the sticky content failure, if any.
func (o *Output) Err() error { return o.err }

// Lines returns the number of content lines written.
func (o *Output) Lines() int { return o.lines }

// Bytes returns the number of bytes written, frames included.
func (o *Output) Bytes() int { return o.bytes }

type contextKey struct{}

// NewContext returns a copy of ctx carrying out.
func NewContext(ctx context.Context, out *Output) context.Context {
	return context.WithValue(ctx, contextKey{}, out)
}

// FromContext returns the Output stored by NewContext.
func FromContext(ctx context.Context) (*Output, bool) {
	out, ok := ctx.Value(contextKey{}).(*Output)
	return out, ok
}
