package session

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/aretw0/consolehttp/internal/logging"
	"github.com/aretw0/consolehttp/pkg/app"
	"github.com/aretw0/consolehttp/pkg/formatter"
	"github.com/aretw0/consolehttp/pkg/input"
	"github.com/aretw0/consolehttp/pkg/output"
	"github.com/aretw0/consolehttp/pkg/theme"
	"github.com/aretw0/consolehttp/pkg/transcode"
	"github.com/google/uuid"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateInit State = iota
	StateStreaming
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session streams one application run as an HTML document.
// It is not safe for concurrent use.
type Session struct {
	id        string
	sink      output.Sink
	theme     *theme.Theme
	converter transcode.Converter
	base      formatter.Formatter
	logger    *slog.Logger
	hooks     Hooks

	state   State
	ctx     context.Context
	out     *output.Output
	frame   output.Frame
	started time.Time
	input   string
	result  error
}

// Option configures a Session.
type Option func(*Session)

// WithTheme sets the theme of the document stylesheet and inline colors.
func WithTheme(th *theme.Theme) Option {
	return func(s *Session) {
		s.theme = th
	}
}

// WithConverter replaces the escape code to HTML converter.
func WithConverter(c transcode.Converter) Option {
	return func(s *Session) {
		s.converter = c
	}
}

// WithFormatter sets the base formatter, e.g. one with extra styles. Its
// decoration is set by Start.
func WithFormatter(f formatter.Formatter) Option {
	return func(s *Session) {
		s.base = f
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithHooks(h Hooks) Option {
	return func(s *Session) {
		s.hooks = h
	}
}

// WithID sets the session identifier (default: a random UUID).
func WithID(id string) Option {
	return func(s *Session) {
		s.id = id
	}
}

// New creates a session writing to sink.
func New(sink output.Sink, opts ...Option) *Session {
	s := &Session{
		sink:   sink,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.theme == nil {
		s.theme = theme.Default()
	}
	if s.converter == nil {
		s.converter = transcode.NewHTMLConverter(transcode.WithLogger(s.logger))
	}
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) State() State { return s.state }

// Output returns the session Output, nil before Start.
func (s *Session) Output() *output.Output { return s.out }

// Start resolves decoration from in and the sink capability, selects the
// formatter and writes the document preamble.
func (s *Session) Start(ctx context.Context, in *input.Input) error {
	switch s.state {
	case StateStreaming:
		return ErrSessionStarted
	case StateClosed:
		return ErrSessionClosed
	}

	decorated := input.ResolveDecoration(in, output.SupportsDecoration(s.sink))
	base := s.base
	if base == nil {
		base = formatter.NewTagFormatter(decorated)
	}
	base.SetDecorated(decorated)

	var f formatter.Formatter = formatter.NewPlainHTMLFormatter(base)
	if decorated {
		f = formatter.NewHTMLFormatter(base, s.converter, s.theme)
	}

	s.ctx = ctx
	s.input = in.String()
	s.out = output.New(s.sink, f,
		output.WithVerbosity(input.ResolveVerbosity(in)),
		output.WithWriteHook(s.lineWritten),
		output.WithPlainEscaper(html.EscapeString),
	)
	s.frame = output.Frame{Theme: s.theme, Decorated: decorated}
	s.started = time.Now()
	s.state = StateStreaming

	s.logger.Debug("session started", "session_id", s.id, "decorated", decorated, "input", s.input)
	if s.hooks.OnStart != nil {
		s.hooks.OnStart(ctx, s.event())
	}

	if err := s.out.WriteFrame(s.frame.Open()); err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	return nil
}

// Close writes the closing tags and closes the Output. Closing a session that
// never started only marks it closed.
func (s *Session) Close() error {
	switch s.state {
	case StateClosed:
		return ErrSessionClosed
	case StateInit:
		s.state = StateClosed
		return nil
	}

	var err error
	if ferr := s.out.WriteFrame(s.frame.Close()); ferr != nil {
		err = fmt.Errorf("close document: %w", ferr)
	}
	s.out.Close()
	s.state = StateClosed

	e := s.event()
	e.Err = errors.Join(s.failure(s.result), err)
	s.logger.Debug("session closed", "session_id", s.id, "lines", e.Lines, "bytes", e.Bytes, "duration", e.Duration, "error", e.Err)
	if s.hooks.OnClose != nil {
		s.hooks.OnClose(s.ctx, e)
	}
	return err
}

// Run starts the session, runs a and closes the session. The document is
// always closed once started; the close error is joined with the run error.
func (s *Session) Run(ctx context.Context, a app.Application, in *input.Input) (err error) {
	if err := s.Start(ctx, in); err != nil {
		if s.state == StateStreaming {
			return errors.Join(err, s.Close())
		}
		return err
	}
	defer func() {
		err = s.failure(err)
		s.result = err
		err = errors.Join(err, s.Close())
	}()
	return a.Run(ctx, in, s.out)
}

// failure adds the Output's sticky error to err unless err already carries it.
func (s *Session) failure(err error) error {
	oerr := s.out.Err()
	if oerr == nil || errors.Is(err, oerr) {
		return err
	}
	return errors.Join(err, oerr)
}

func (s *Session) lineWritten(int) {
	if s.hooks.OnLine != nil {
		s.hooks.OnLine(s.ctx, s.event())
	}
}

func (s *Session) event() *Event {
	e := &Event{
		SessionID: s.id,
		Input:     s.input,
		Decorated: s.frame.Decorated,
		Duration:  time.Since(s.started),
	}
	if s.out != nil {
		e.Lines = s.out.Lines()
		e.Bytes = s.out.Bytes()
	}
	return e
}
