package providers

import (
	"context"

	"github.com/rs/zerolog"

	"imageforge/internal/domain"
	"imageforge/internal/jobstore"
)

// Gemini adapts the Google multimodal backend. The real network protocol is
// out of scope here; the adapter honours the full job contract with a
// simulated pipeline while owning the Gemini-specific prompt policy.
type Gemini struct {
	runner *runner
	apiKey string
	opts   Options
}

// NewGemini constructs the Gemini adapter. A missing API key is tolerated
// but logged: the registry only routes here when credentials are present.
func NewGemini(apiKey string, store *jobstore.Store, log zerolog.Logger, rec Recorder, opts Options) *Gemini {
	g := &Gemini{
		runner: newRunner(ModelGemini, store, log, rec),
		apiKey: apiKey,
		opts:   opts,
	}
	if apiKey == "" {
		g.runner.log.Warn().Msg("gemini: api key missing, adapter will not be registered")
	}
	return g
}

func (g *Gemini) Generate(ctx context.Context, params domain.GenerationParams) (domain.Job, error) {
	pace := g.opts.pace()
	instruction := buildGeminiPrompt(params)
	stages := []stage{
		processingStage(0, 10, 20),
		previewStage(2*pace, 55, placeholderImage(768, 768, "Gemini preview"), 10),
		completedStage(3*pace, placeholderImage(1536, 1536, "Gemini Generated")),
	}
	job, err := g.runner.start(stages)
	if err != nil {
		return domain.Job{}, err
	}
	g.runner.log.Debug().
		Str("job_id", job.JobID).
		Str("mode", params.Mode).
		Int("instruction_len", len(instruction)).
		Msg("gemini: generation scheduled")
	return job, nil
}

func (g *Gemini) Edit(ctx context.Context, params domain.EditParams) (domain.Job, error) {
	pace := g.opts.pace()
	instruction := buildGeminiEditPrompt(params)
	stages := []stage{
		processingStage(0, 15, 15),
		completedStage(4*pace, placeholderImage(1536, 1536, "Gemini Edited")),
	}
	job, err := g.runner.start(stages)
	if err != nil {
		return domain.Job{}, err
	}
	g.runner.log.Debug().
		Str("job_id", job.JobID).
		Str("mode", params.Mode).
		Int("instruction_len", len(instruction)).
		Msg("gemini: edit scheduled")
	return job, nil
}

func (g *Gemini) Status(jobID string) (domain.Job, error) { return g.runner.status(jobID) }

func (g *Gemini) Cancel(jobID string) bool { return g.runner.cancel(jobID) }

var _ Adapter = (*Gemini)(nil)
