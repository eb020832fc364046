package providers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"imageforge/internal/domain"
	"imageforge/internal/jobstore"
)

// stage is one timed store update in a simulated provider pipeline.
type stage struct {
	delay time.Duration
	patch jobstore.Patch
}

func processingStage(delay time.Duration, progress, eta int) stage {
	status := domain.JobStatusProcessing
	return stage{delay: delay, patch: jobstore.Patch{Status: &status, Progress: &progress, ETA: &eta}}
}

func previewStage(delay time.Duration, progress int, previewURL string, eta int) stage {
	return stage{delay: delay, patch: jobstore.Patch{
		Progress:       &progress,
		AppendPreviews: []string{previewURL},
		ETA:            &eta,
	}}
}

func completedStage(delay time.Duration, finalURL string) stage {
	status := domain.JobStatusCompleted
	progress := 100
	eta := 0
	return stage{delay: delay, patch: jobstore.Patch{
		Status:   &status,
		Progress: &progress,
		FinalURL: &finalURL,
		ETA:      &eta,
	}}
}

// runner owns the background pipelines of a single adapter instance: the
// store writes, the per-job cancellation tokens, and nothing else. Adapters
// never hold Job references, only ids.
type runner struct {
	modelID string
	store   *jobstore.Store
	log     zerolog.Logger
	rec     Recorder

	mu     sync.Mutex
	active map[string]context.CancelFunc
}

func newRunner(modelID string, store *jobstore.Store, log zerolog.Logger, rec Recorder) *runner {
	if rec == nil {
		rec = nopRecorder{}
	}
	return &runner{
		modelID: modelID,
		store:   store,
		log:     log.With().Str("model", modelID).Logger(),
		rec:     rec,
		active:  make(map[string]context.CancelFunc),
	}
}

// start creates the job record, registers a cancellation token, and launches
// the pipeline goroutine. The returned job is the caller's snapshot.
func (r *runner) start(stages []stage) (domain.Job, error) {
	job := newJob(r.modelID)
	if err := r.store.Create(job); err != nil {
		return domain.Job{}, err
	}
	r.rec.JobStarted(r.modelID)

	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.active[job.JobID] = cancel
	r.mu.Unlock()

	go r.run(ctx, job.JobID, stages)
	return job, nil
}

// run applies the stages in order. Failures of any kind are converted into a
// terminal failed update; nothing escapes the goroutine.
func (r *runner) run(ctx context.Context, jobID string, stages []stage) {
	defer r.untrack(jobID)
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Str("job_id", jobID).Msg("provider: pipeline panicked")
			r.markFailed(jobID, "internal provider error")
		}
	}()

	for _, s := range stages {
		select {
		case <-ctx.Done():
			// Cancelled; the cancel path owns the terminal update.
			return
		case <-time.After(s.delay):
		}

		updated, err := r.store.Update(jobID, s.patch)
		if err != nil {
			if errors.Is(err, domain.ErrJobNotFound) {
				// Deleted out from under us; nothing left to report to.
				return
			}
			r.markFailed(jobID, err.Error())
			return
		}
		if updated.Status.Terminal() {
			r.rec.JobFinished(r.modelID, updated.Status)
		}
	}
}

func (r *runner) markFailed(jobID, message string) {
	status := domain.JobStatusFailed
	if _, err := r.store.Update(jobID, jobstore.Patch{Status: &status, Error: &message}); err != nil {
		r.log.Warn().Err(err).Str("job_id", jobID).Msg("provider: failed update lost")
		return
	}
	r.rec.JobFinished(r.modelID, domain.JobStatusFailed)
}

func (r *runner) untrack(jobID string) {
	r.mu.Lock()
	delete(r.active, jobID)
	r.mu.Unlock()
}

// status fetches the current job snapshot from the store.
func (r *runner) status(jobID string) (domain.Job, error) {
	return r.store.Get(jobID)
}

// cancel clears the job's pipeline token and marks the job cancelled.
// A near-simultaneous completion can race this; last write wins on the
// store and both outcomes are valid.
func (r *runner) cancel(jobID string) bool {
	r.mu.Lock()
	cancelFn, ok := r.active[jobID]
	if ok {
		delete(r.active, jobID)
	}
	r.mu.Unlock()
	if !ok {
		return false
	}
	cancelFn()

	status := domain.JobStatusCancelled
	progress := 0
	if _, err := r.store.Update(jobID, jobstore.Patch{Status: &status, Progress: &progress}); err != nil {
		return false
	}
	r.rec.JobFinished(r.modelID, domain.JobStatusCancelled)
	return true
}
