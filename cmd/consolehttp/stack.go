package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/consolehttp"
	"github.com/aretw0/consolehttp/internal/config"
	"github.com/aretw0/consolehttp/internal/demo"
	"github.com/aretw0/consolehttp/internal/logging"
	"github.com/aretw0/consolehttp/internal/metrics"
	"github.com/aretw0/consolehttp/pkg/adapters/process"
	"github.com/aretw0/consolehttp/pkg/app"
	"github.com/aretw0/consolehttp/pkg/session"
	"github.com/aretw0/consolehttp/pkg/transcode"
	"github.com/spf13/cobra"
)

var errInvalidConfig = errors.New("invalid configuration")

// stack is everything a command needs, built from the configuration.
type stack struct {
	cfg      config.Config
	logger   *slog.Logger
	adapter  *consolehttp.Adapter
	app      app.Application
	runner   *process.Runner
	metrics  *metrics.Metrics
	sessions *session.Manager
}

func loadStack(cmd *cobra.Command) (*stack, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidConfig, err)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidConfig, err)
	}
	logger := logging.New(level)

	th, err := cfg.BuildTheme()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidConfig, err)
	}
	convOpts := []transcode.ConverterOption{transcode.WithLogger(logger)}
	if cfg.Classes {
		convOpts = append(convOpts, transcode.WithClasses())
	}

	s := &stack{
		cfg:      cfg,
		logger:   logger,
		metrics:  metrics.New(),
		sessions: session.NewManager(),
	}
	s.adapter = consolehttp.New(
		consolehttp.WithTheme(th),
		consolehttp.WithConverter(transcode.NewHTMLConverter(convOpts...)),
		consolehttp.WithHooks(session.Merge(s.metrics.Hooks(), s.sessions.Hooks())),
		consolehttp.WithLogger(logger),
	)

	reg, err := cfg.Registry()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidConfig, err)
	}
	if len(reg) > 0 {
		s.runner = process.NewRunner(process.WithRegistry(reg), process.WithLogger(logger))
		s.app = s.runner
	} else {
		s.app = app.NewCobra(demo.NewCommand)
	}
	return s, nil
}

func exitCode(err error) int {
	if errors.Is(err, errInvalidConfig) {
		return 2
	}
	return app.ExitCode(err)
}
