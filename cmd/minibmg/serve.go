package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/minibmg"
	"github.com/aretw0/minibmg/internal/metrics"
	"github.com/aretw0/minibmg/internal/presentation/tui"
	httpAdapter "github.com/aretw0/minibmg/pkg/adapters/http"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Serves the configured graph store over a JSON API: store, fetch, evaluate,
deduplicate and render graphs. Prometheus metrics are exposed at /metrics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("listen") {
				listen = a.cfg.Listen
			}
			store, closeStore, err := a.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			m := metrics.New()
			eng := minibmg.New("", minibmg.WithLogger(a.logger), minibmg.WithSeed(a.cfg.Seed), minibmg.WithRecorder(m))
			srv := &http.Server{
				Addr:              listen,
				Handler:           httpAdapter.NewHandler(eng, store, httpAdapter.WithMetrics(m.Handler())),
				ReadHeaderTimeout: 10 * time.Second,
			}

			tui.PrintBanner(cmd.OutOrStdout(), minibmg.Version)
			a.logger.Info("starting server", "addr", listen, "store", a.cfg.Store)

			// Channel to listen for errors coming from the listener.
			serverErrors := make(chan error, 1)
			go func() {
				serverErrors <- srv.ListenAndServe()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-serverErrors:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				a.logger.Info("shutting down server")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					a.logger.Error("graceful shutdown did not complete", "timeout", shutdownTimeout, "error", err)
					return srv.Close()
				}
				a.logger.Info("server stopped gracefully")
				return nil
			}
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "Address to listen on (default from config)")
	return cmd
}
