package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpAdapter "github.com/aretw0/consolehttp/pkg/adapters/http"
	"github.com/aretw0/consolehttp/pkg/input"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Serves the configured application at /run, streaming each invocation as an HTML document.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadStack(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("listen") {
			s.cfg.Listen, _ = cmd.Flags().GetString("listen")
		}

		builder := input.NewBuilder(
			input.WithDefaultOptions(s.cfg.DefaultOptions...),
			input.WithMaxTokenSize(s.cfg.MaxTokenSize),
		)
		handler := httpAdapter.NewHandler(s.adapter, s.app,
			httpAdapter.WithBuilder(builder),
			httpAdapter.WithDecorated(s.cfg.Decorated),
			httpAdapter.WithWriteTimeout(s.cfg.WriteTimeout),
			httpAdapter.WithSessions(s.sessions),
			httpAdapter.WithMetricsHandler(s.metrics.Handler()),
			httpAdapter.WithLogger(s.logger),
		)

		// Streaming sessions outlive the signal context until shutdown gives up on them.
		runCtx, cancelRuns := context.WithCancel(context.Background())
		defer cancelRuns()

		srv := &http.Server{
			Addr:              s.cfg.Listen,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return runCtx },
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			s.logger.Info("starting server", "addr", srv.Addr, "commands", len(s.cfg.Commands))
			serverErrors <- srv.ListenAndServe()
		}()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server: %w", err)
		case <-ctx.Done():
		}

		s.logger.Info("shutting down", "active", s.sessions.Len())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
			cancelRuns()
			if err := srv.Close(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("closing server", "error", err)
			}
		}
		s.sessions.Wait()
		s.logger.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "Listen address (overrides the configuration)")
}
