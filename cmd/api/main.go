package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	httpapi "imageforge/internal/http"
	"imageforge/internal/http/handlers"
	"imageforge/internal/infra"
	"imageforge/internal/jobstore"
	"imageforge/internal/metrics"
	"imageforge/internal/providers"
	"imageforge/internal/registry"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := jobstore.New(cfg.JobRetention)
	go store.RunSweeper(ctx, cfg.SweepInterval, logger)

	m := metrics.New()
	reg := registry.New(cfg, store, logger, m, providers.Options{})

	app := &handlers.App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Registry: reg,
	}
	router := httpapi.NewRouter(app, m.Handler())
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("port", cfg.Port).Int("models", len(reg.AvailableModels())).Msg("api listening")
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
