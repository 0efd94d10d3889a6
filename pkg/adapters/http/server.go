package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/consolehttp"
	"github.com/aretw0/consolehttp/internal/logging"
	"github.com/aretw0/consolehttp/pkg/app"
	"github.com/aretw0/consolehttp/pkg/input"
	"github.com/aretw0/consolehttp/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server streams one application over HTTP.
type Server struct {
	adapter      *consolehttp.Adapter
	app          app.Application
	builder      *input.Builder
	sessions     *session.Manager
	metrics      http.Handler
	logger       *slog.Logger
	decorated    bool
	writeTimeout time.Duration
}

// Option configures a Server.
type Option func(*Server)

// WithBuilder sets the URL to invocation builder (default input.NewBuilder()).
func WithBuilder(b *input.Builder) Option {
	return func(s *Server) {
		s.builder = b
	}
}

// WithSessions exposes the sessions tracked by m at /info. The adapter must
// run m.Hooks() for the list to be populated.
func WithSessions(m *session.Manager) Option {
	return func(s *Server) {
		s.sessions = m
	}
}

// WithMetricsHandler serves h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithDecorated sets whether clients render styled output when the request
// carries neither --ansi nor --no-ansi.
func WithDecorated(decorated bool) Option {
	return func(s *Server) {
		s.decorated = decorated
	}
}

// WithWriteTimeout bounds the duration of a stream (default: unbounded).
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.writeTimeout = d
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// New creates a Server running application through adapter.
func New(adapter *consolehttp.Adapter, application app.Application, opts ...Option) *Server {
	s := &Server{
		adapter:   adapter,
		app:       application,
		builder:   input.NewBuilder(),
		logger:    logging.NewNop(),
		decorated: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates the HTTP handler of a Server.
func NewHandler(adapter *consolehttp.Adapter, application app.Application, opts ...Option) http.Handler {
	return New(adapter, application, opts...).Routes()
}

// Routes returns the router of s.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	r.Get("/run", s.Run)
	r.Get("/run/*", s.Run)

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Expose-Headers", TrailerExitCode)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Run handles GET /run/*: it streams the application run as an HTML document.
func (s *Server) Run(w http.ResponseWriter, r *http.Request) {
	logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))

	in, err := s.builder.Create(pathArgs(r), r.URL.RawQuery)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		logger.Warn("Run: input rejected", "error", err)
		return
	}

	sink, err := NewSink(w, s.decorated)
	if err != nil {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		logger.Error("Run: streaming not supported", "error", err)
		return
	}

	rc := http.NewResponseController(w)
	err = s.adapter.Run(r.Context(), s.app, in, sink,
		HeaderSetting(w.Header(), StreamHeaders()),
		WriteDeadlineSetting(rc, s.writeTimeout),
	)

	if !sink.Written() {
		// Nothing reached the client: report the failure as a plain response.
		http.Error(w, fmt.Sprintf("Run error: %v", err), http.StatusInternalServerError)
		logger.Error("Run: session failed before output", "error", err, "input", in.String())
		return
	}

	code := app.ExitCode(err)
	w.Header().Set(TrailerExitCode, strconv.Itoa(code))
	switch {
	case err == nil:
		logger.Info("Run: session finished", "input", in.String())
	case errors.Is(err, consolehttp.ErrConfiguration):
		logger.Error("Run: environment not restored", "error", err, "input", in.String())
	default:
		logger.Warn("Run: session failed", "error", err, "exit_code", code, "input", in.String())
	}
}

// pathArgs returns the still-escaped path segments after the route prefix.
func pathArgs(r *http.Request) []string {
	rest := chi.URLParam(r, "*")
	segs := input.SplitPath(rest)
	if r.URL.RawPath != "" {
		// chi routed on the escaped path.
		return segs
	}
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return segs
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"app":     "consolehttp",
		"version": strings.TrimSpace(consolehttp.Version),
	}
	if s.sessions != nil {
		resp["sessions"] = s.sessions.Active()
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
