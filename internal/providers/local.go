package providers

import (
	"context"

	"github.com/rs/zerolog"

	"imageforge/internal/domain"
	"imageforge/internal/jobstore"
)

// Local simulates a generation backend entirely in-process. It is always
// registered regardless of configured credentials and acts as the guaranteed
// fallback: pending, then processing with two progressively sharper previews,
// then a final artifact.
type Local struct {
	runner *runner
	opts   Options
}

// NewLocal constructs the local adapter against the shared store.
func NewLocal(store *jobstore.Store, log zerolog.Logger, rec Recorder, opts Options) *Local {
	return &Local{
		runner: newRunner(ModelLocal, store, log, rec),
		opts:   opts,
	}
}

func (l *Local) Generate(ctx context.Context, params domain.GenerationParams) (domain.Job, error) {
	pace := l.opts.pace()
	stages := []stage{
		processingStage(0, 10, 30),
		previewStage(2*pace, 40, placeholderImage(256, 256, "Low-res preview"), 20),
		previewStage(3*pace, 70, placeholderImage(512, 512, "Mid-res preview"), 10),
		completedStage(3*pace, placeholderImage(1024, 1024, "Final image")),
	}
	job, err := l.runner.start(stages)
	if err != nil {
		return domain.Job{}, err
	}
	l.runner.log.Debug().Str("job_id", job.JobID).Str("mode", params.Mode).Msg("local: generation scheduled")
	return job, nil
}

func (l *Local) Edit(ctx context.Context, params domain.EditParams) (domain.Job, error) {
	pace := l.opts.pace()
	stages := []stage{
		processingStage(0, 15, 25),
		completedStage(6*pace, placeholderImage(1024, 1024, "Edited image")),
	}
	job, err := l.runner.start(stages)
	if err != nil {
		return domain.Job{}, err
	}
	l.runner.log.Debug().Str("job_id", job.JobID).Str("mode", params.Mode).Msg("local: edit scheduled")
	return job, nil
}

func (l *Local) Status(jobID string) (domain.Job, error) { return l.runner.status(jobID) }

func (l *Local) Cancel(jobID string) bool { return l.runner.cancel(jobID) }

var _ Adapter = (*Local)(nil)
