// Package providers contains the model adapter contract and the provider
// variants that implement it. Adapters translate generation and edit
// requests into background work and report results exclusively by writing
// into the shared job store.
package providers

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"imageforge/internal/domain"
)

// Model ids, fixed per adapter at construction.
const (
	ModelLocal  = "local-mock"
	ModelGemini = "gemini-pro-vision"
	ModelBanana = "banana-stable-diffusion"
)

// Adapter is the capability contract implemented per provider. Generate and
// Edit return the freshly created job immediately; callers may only assume
// tracking has begun, not that work has started. Cancel is best-effort and
// adapter-local: it returns false without error when this instance holds no
// handle for the job.
type Adapter interface {
	Generate(ctx context.Context, params domain.GenerationParams) (domain.Job, error)
	Edit(ctx context.Context, params domain.EditParams) (domain.Job, error)
	Status(jobID string) (domain.Job, error)
	Cancel(jobID string) bool
}

// Recorder receives job lifecycle events for metrics. Implementations must
// be safe for concurrent use.
type Recorder interface {
	JobStarted(modelID string)
	JobFinished(modelID string, status domain.JobStatus)
}

type nopRecorder struct{}

func (nopRecorder) JobStarted(string)                    {}
func (nopRecorder) JobFinished(string, domain.JobStatus) {}

// Options tunes provider pacing. Pace scales every simulated stage delay;
// tests shrink it to keep the full state machine under a millisecond budget.
type Options struct {
	Pace time.Duration
}

func (o Options) pace() time.Duration {
	if o.Pace <= 0 {
		return time.Second
	}
	return o.Pace
}

func newJob(modelID string) domain.Job {
	now := time.Now()
	return domain.Job{
		JobID:       "job_" + uuid.NewString(),
		Status:      domain.JobStatusPending,
		Progress:    0,
		PreviewURLs: []string{},
		ModelID:     modelID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// placeholderImage mirrors the artifact URL shape used by the stubbed
// backends: a renderable placeholder carrying dimensions and a caption.
func placeholderImage(width, height int, text string) string {
	return fmt.Sprintf("/placeholder.svg?height=%d&width=%d&text=%s", height, width, url.QueryEscape(text))
}
