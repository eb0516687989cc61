// Package main boots the vending machine HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vendio/machine-api/internal/config"
	httpapi "github.com/vendio/machine-api/internal/http"
	"github.com/vendio/machine-api/internal/machine"
	"github.com/vendio/machine-api/internal/obs"
	"github.com/vendio/machine-api/internal/store"
)

func main() {
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info().
		Int("num_rows", cfg.NumRows).
		Int("slots_per_row", cfg.SlotsPerRow).
		Int64("products_per_slot", cfg.ProductsPerSlot).
		Msg("service_starting")

	st := store.New()
	svc := machine.NewService(cfg, st)

	app := httpapi.NewApp(cfg, svc)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info().Str("addr", cfg.HTTPAddr).Msg("http_listen")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error().Err(err).Msg("http_server_error")
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info().Str("signal", s.String()).Msg("shutdown_signal")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		obs.Logger.Error().Err(err).Msg("http_shutdown_error")
	}
	obs.Logger.Info().Msg("service_stopped")
}
