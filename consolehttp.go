package consolehttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/consolehttp/internal/logging"
	"github.com/aretw0/consolehttp/pkg/app"
	"github.com/aretw0/consolehttp/pkg/formatter"
	"github.com/aretw0/consolehttp/pkg/input"
	"github.com/aretw0/consolehttp/pkg/output"
	"github.com/aretw0/consolehttp/pkg/session"
	"github.com/aretw0/consolehttp/pkg/theme"
	"github.com/aretw0/consolehttp/pkg/transcode"
	"golang.org/x/term"
)

// Adapter runs console applications as streamed HTML documents. It holds no
// per-run state and is safe for concurrent use.
type Adapter struct {
	theme     *theme.Theme
	converter transcode.Converter
	styles    map[string]*formatter.Style
	hooks     session.Hooks
	logger    *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTheme sets the document theme (default theme.Default()).
func WithTheme(th *theme.Theme) Option {
	return func(a *Adapter) {
		a.theme = th
	}
}

// WithConverter replaces the escape code to HTML converter.
func WithConverter(c transcode.Converter) Option {
	return func(a *Adapter) {
		a.converter = c
	}
}

// WithStyles registers extra style tags on every session's formatter.
func WithStyles(styles map[string]*formatter.Style) Option {
	return func(a *Adapter) {
		a.styles = styles
	}
}

// WithHooks registers session lifecycle hooks.
func WithHooks(h session.Hooks) Option {
	return func(a *Adapter) {
		a.hooks = h
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		a.logger = logger
	}
}

// New creates an Adapter.
func New(opts ...Option) *Adapter {
	a := &Adapter{
		theme:  theme.Default(),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.converter == nil {
		a.converter = transcode.NewHTMLConverter(transcode.WithLogger(a.logger))
	}
	return a
}

// Theme returns the adapter theme.
func (a *Adapter) Theme() *theme.Theme { return a.theme }

// Run acquires settings for the duration of the run and runs application.
// Settings are released on every exit path; output dependent ones are left in
// place when the document was already partly sent.
func (a *Adapter) Run(ctx context.Context, application app.Application, in *input.Input, sink output.Sink, settings ...Setting) (err error) {
	env, err := Acquire(settings...)
	if err != nil {
		return err
	}
	var s *session.Session
	defer func() {
		committed := s != nil && s.Output() != nil && s.Output().Committed()
		err = errors.Join(err, env.Release(committed))
	}()

	s, err = a.NewSession(sink)
	if err != nil {
		return err
	}
	return s.Run(ctx, application, in)
}

// RunApplication runs application in a new session writing to sink, without
// touching the environment. A nil sink selects DefaultSink.
func (a *Adapter) RunApplication(ctx context.Context, application app.Application, in *input.Input, sink output.Sink) error {
	s, err := a.NewSession(sink)
	if err != nil {
		return err
	}
	return s.Run(ctx, application, in)
}

// NewSession creates a session with the adapter's theme, converter, styles and
// hooks. A nil sink selects DefaultSink.
func (a *Adapter) NewSession(sink output.Sink, opts ...session.Option) (*session.Session, error) {
	if sink == nil {
		var err error
		if sink, err = DefaultSink(); err != nil {
			return nil, err
		}
	}

	base := formatter.NewTagFormatter(false)
	for name, style := range a.styles {
		base.SetStyle(name, style)
	}
	opts = append([]session.Option{
		session.WithTheme(a.theme),
		session.WithConverter(a.converter),
		session.WithFormatter(base),
		session.WithHooks(a.hooks),
		session.WithLogger(a.logger),
	}, opts...)
	return session.New(sink, opts...), nil
}

// DefaultSink writes to the process standard output. It is decorated when
// standard output is a terminal.
func DefaultSink() (output.Sink, error) {
	if os.Stdout == nil {
		return nil, fmt.Errorf("%w: no standard output", output.ErrSinkUnavailable)
	}
	if _, err := os.Stdout.Stat(); err != nil {
		return nil, fmt.Errorf("%w: %w", output.ErrSinkUnavailable, err)
	}
	return output.NewWriterSink(os.Stdout, term.IsTerminal(int(os.Stdout.Fd()))), nil
}
