// Command render drives one generation session against a running api
// server: submit, poll, and log the progressive view until the job settles.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"imageforge/internal/domain"
	"imageforge/internal/infra"
	"imageforge/internal/manager"
	"imageforge/internal/progressive"
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

	params := domain.GenerationParams{
		Prompt:      getenv("RENDER_PROMPT", "a cat wearing a space helmet"),
		Mode:        getenv("RENDER_MODE", "studio-portrait"),
		Size:        getenv("RENDER_SIZE", "1024x1024"),
		AspectRatio: getenv("RENDER_ASPECT", "1:1"),
	}

	mgr := manager.New(manager.Options{
		BaseURL:      cfg.APIBaseURL,
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	})
	defer mgr.Stop()

	jobID, err := mgr.StartGeneration(ctx, params)
	if err != nil {
		logger.Fatal().Err(err).Msg("render: failed to start generation")
	}
	logger.Info().Str("job_id", jobID).Str("mode", params.Mode).Msg("render: generation submitted")

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()
	var lastSeq int64

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("render: interrupted")
			return
		case <-ticker.C:
		}

		for _, n := range mgr.Notifications(lastSeq) {
			lastSeq = n.Seq
			logger.Info().
				Str("kind", string(n.Kind)).
				Str("title", n.Title).
				Str("message", n.Message).
				Msg("render: notification")
		}

		view := progressive.Project(progressive.Latest(mgr.ActiveJobs()))
		if view.Loading {
			event := logger.Info().
				Int("progress", view.Progress).
				Str("current_image", view.CurrentImage).
				Int("previews", len(view.Previews))
			if view.ETA != nil {
				event = event.Int("eta_seconds", *view.ETA)
			}
			event.Msg("render: in progress")
			continue
		}

		if !mgr.IsGenerating() {
			if history := mgr.CompletedJobs(); len(history) > 0 {
				logger.Info().Str("final_url", history[0].FinalURL).Msg("render: completed")
			} else {
				logger.Warn().Msg("render: job did not complete")
			}
			return
		}
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
