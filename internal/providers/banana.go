package providers

import (
	"context"

	"github.com/rs/zerolog"

	"imageforge/internal/domain"
	"imageforge/internal/jobstore"
)

// Banana adapts a hosted Stable Diffusion backend. Like Gemini, the real
// wire protocol is stubbed; the adapter keeps the diffusion-style prompt
// policy (quality enhancers plus per-mode modifiers) and the job contract.
type Banana struct {
	runner   *runner
	apiKey   string
	modelKey string
	opts     Options
}

// NewBanana constructs the Banana adapter.
func NewBanana(apiKey, modelKey string, store *jobstore.Store, log zerolog.Logger, rec Recorder, opts Options) *Banana {
	if modelKey == "" {
		modelKey = "stable-diffusion-xl"
	}
	b := &Banana{
		runner:   newRunner(ModelBanana, store, log, rec),
		apiKey:   apiKey,
		modelKey: modelKey,
		opts:     opts,
	}
	if apiKey == "" {
		b.runner.log.Warn().Msg("banana: api key missing, adapter will not be registered")
	}
	return b
}

func (b *Banana) Generate(ctx context.Context, params domain.GenerationParams) (domain.Job, error) {
	pace := b.opts.pace()
	prompt := buildBananaPrompt(params)
	negative := params.NegativePrompt
	if negative == "" {
		negative = DefaultNegativePrompt
	}
	stages := []stage{
		processingStage(0, 10, 25),
		previewStage(3*pace, 60, placeholderImage(512, 512, "Diffusion preview"), 10),
		completedStage(3*pace, placeholderImage(1024, 1024, "Banana Generated")),
	}
	job, err := b.runner.start(stages)
	if err != nil {
		return domain.Job{}, err
	}
	b.runner.log.Debug().
		Str("job_id", job.JobID).
		Str("model_key", b.modelKey).
		Int("prompt_len", len(prompt)).
		Int("negative_len", len(negative)).
		Msg("banana: generation scheduled")
	return job, nil
}

func (b *Banana) Edit(ctx context.Context, params domain.EditParams) (domain.Job, error) {
	pace := b.opts.pace()
	prompt := buildBananaEditPrompt(params)
	stages := []stage{
		processingStage(0, 15, 20),
		completedStage(5*pace, placeholderImage(1024, 1024, "Banana Edited")),
	}
	job, err := b.runner.start(stages)
	if err != nil {
		return domain.Job{}, err
	}
	b.runner.log.Debug().
		Str("job_id", job.JobID).
		Str("model_key", b.modelKey).
		Int("prompt_len", len(prompt)).
		Msg("banana: edit scheduled")
	return job, nil
}

func (b *Banana) Status(jobID string) (domain.Job, error) { return b.runner.status(jobID) }

func (b *Banana) Cancel(jobID string) bool { return b.runner.cancel(jobID) }

var _ Adapter = (*Banana)(nil)
