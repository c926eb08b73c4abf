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
	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/logger"
	"github.com/warp/payroll-engine/seed"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEngine(cmd, func(ctx context.Context) error {
				return a.serve(ctx)
			})
		},
	}
}

// serve runs the API until SIGINT/SIGTERM, then drains requests for at
// most ShutdownTimeout.
func (a *app) serve(ctx context.Context) error {
	log := logger.Named("server")

	if a.cfg.SeedDefaults {
		if _, err := seed.Defaults(ctx, a.store); err != nil {
			log.Warn().Err(err).Msg("failed to seed defaults")
		}
	}

	h := api.NewHandler(a.calc, a.store)
	h.DB = a.store

	server := &http.Server{
		Addr:         a.cfg.Addr(),
		Handler:      api.NewRouter(h, a.cfg.AllowedOrigins),
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", server.Addr).Str("driver", a.cfg.DBDriver).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errc:
		return err
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}
