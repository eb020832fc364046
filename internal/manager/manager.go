// Package manager drives the request/poll/notify cycle for one caller
// session against the boundary service. It never mutates jobs locally: every
// status it reports was read back from the polled source of truth.
package manager

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"imageforge/internal/domain"
)

// Options configures a Manager.
type Options struct {
	BaseURL      string
	HTTPClient   *http.Client
	PollInterval time.Duration
	BusSize      int
	Logger       zerolog.Logger
}

// Manager keeps two disjoint collections: active jobs (non-terminal) and the
// completed history. Failed and cancelled jobs leave the active set without
// entering history.
type Manager struct {
	client   *Client
	log      zerolog.Logger
	interval time.Duration
	bus      *EventBus

	mu        sync.Mutex
	active    []domain.Job
	completed []domain.Job
	polls     map[string]context.CancelFunc
}

// New constructs a Manager for the given boundary base URL.
func New(opts Options) *Manager {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Manager{
		client:   NewClient(opts.BaseURL, opts.HTTPClient),
		log:      opts.Logger,
		interval: interval,
		bus:      NewEventBus(opts.BusSize),
		polls:    make(map[string]context.CancelFunc),
	}
}

// StartGeneration submits a generation request, tracks the returned job, and
// begins polling before returning. Creation failures are propagated and
// leave no state behind.
func (m *Manager) StartGeneration(ctx context.Context, params domain.GenerationParams) (string, error) {
	job, err := m.client.Generate(ctx, params)
	if err != nil {
		m.bus.Publish(Notification{
			Type:    NotificationError,
			Kind:    KindGenerationFailed,
			Title:   "Generation failed",
			Message: err.Error(),
		})
		return "", err
	}

	m.track(job)
	m.bus.Publish(Notification{
		JobID: job.JobID,
		Type:  NotificationInfo,
		Kind:  KindGenerationStarted,
		Title: "Generation started",
	})
	m.startPolling(job.JobID)
	return job.JobID, nil
}

// StartEditing is the edit-request counterpart of StartGeneration.
func (m *Manager) StartEditing(ctx context.Context, params domain.EditParams) (string, error) {
	job, err := m.client.Edit(ctx, params)
	if err != nil {
		m.bus.Publish(Notification{
			Type:    NotificationError,
			Kind:    KindGenerationFailed,
			Title:   "Editing failed",
			Message: err.Error(),
		})
		return "", err
	}

	m.track(job)
	m.bus.Publish(Notification{
		JobID: job.JobID,
		Type:  NotificationInfo,
		Kind:  KindEditingStarted,
		Title: "Editing started",
	})
	m.startPolling(job.JobID)
	return job.JobID, nil
}

// CancelJob requests cancellation via the boundary. Local polling stops and
// the job leaves the active set regardless of the boundary's answer; the
// return value is the boundary's confirmation.
func (m *Manager) CancelJob(ctx context.Context, jobID string) bool {
	confirmed, err := m.client.Cancel(ctx, jobID)

	m.stopPolling(jobID)
	m.removeActive(jobID)

	if err != nil {
		m.bus.Publish(Notification{
			JobID:   jobID,
			Type:    NotificationError,
			Kind:    KindCancelFailed,
			Title:   "Cancellation failed",
			Message: err.Error(),
		})
		return false
	}

	m.bus.Publish(Notification{
		JobID: jobID,
		Type:  NotificationInfo,
		Kind:  KindJobCancelled,
		Title: "Job cancelled",
	})
	return confirmed
}

// GetJobStatus fetches a job on demand, running the same reconciliation as a
// background poll tick without touching the poll schedule.
func (m *Manager) GetJobStatus(ctx context.Context, jobID string) (*domain.Job, error) {
	job, ok := m.reconcile(ctx, jobID)
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &job, nil
}

// IsGenerating reports whether any active job is pending or processing.
// Derived, never stored.
func (m *Manager) IsGenerating() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, job := range m.active {
		if job.Status == domain.JobStatusPending || job.Status == domain.JobStatusProcessing {
			return true
		}
	}
	return false
}

// ActiveJobs returns a snapshot of the active set in start order.
func (m *Manager) ActiveJobs() []domain.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Job, len(m.active))
	for i, job := range m.active {
		out[i] = job.Clone()
	}
	return out
}

// CompletedJobs returns a snapshot of the history, newest first.
func (m *Manager) CompletedJobs() []domain.Job {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Job, len(m.completed))
	for i, job := range m.completed {
		out[i] = job.Clone()
	}
	return out
}

// ClearCompleted empties the history.
func (m *Manager) ClearCompleted() {
	m.mu.Lock()
	m.completed = nil
	m.mu.Unlock()
}

// Notifications returns the notifications published after the given
// sequence number.
func (m *Manager) Notifications(sinceSeq int64) []Notification {
	return m.bus.Since(sinceSeq)
}

// Stop halts all background polling. The manager remains usable; polling
// resumes for jobs started afterwards.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, cancel := range m.polls {
		cancel()
		delete(m.polls, id)
	}
}

// startPolling launches the per-job poll loop. A second request for an id
// already being polled is a no-op.
func (m *Manager) startPolling(jobID string) {
	m.mu.Lock()
	if _, exists := m.polls[jobID]; exists {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.polls[jobID] = cancel
	m.mu.Unlock()

	go m.pollLoop(ctx, jobID)
}

func (m *Manager) pollLoop(ctx context.Context, jobID string) {
	// Immediate first poll, then the fixed interval.
	if _, done := m.reconcileTick(ctx, jobID); done {
		return
	}

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, done := m.reconcileTick(ctx, jobID); done {
				return
			}
		}
	}
}

func (m *Manager) reconcileTick(ctx context.Context, jobID string) (domain.Job, bool) {
	job, ok := m.reconcile(ctx, jobID)
	if !ok {
		return domain.Job{}, true
	}
	return job, job.Status.Terminal()
}

// reconcile fetches the current job and applies the state transitions: keep
// the active snapshot fresh, and on a terminal status stop the timer, drop
// the job from active, and record or announce the outcome. A transport
// failure is terminal-by-inference: the manager can no longer observe the
// job's true state, so tracking ends with a connection-error notification.
func (m *Manager) reconcile(ctx context.Context, jobID string) (domain.Job, bool) {
	job, err := m.client.Job(ctx, jobID)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Job{}, false
		}
		m.log.Warn().Err(err).Str("job_id", jobID).Msg("manager: poll failed")
		m.stopPolling(jobID)
		m.removeActive(jobID)
		m.bus.Publish(Notification{
			JobID:   jobID,
			Type:    NotificationError,
			Kind:    KindConnectionError,
			Title:   "Connection error",
			Message: "Lost connection to generation service",
		})
		return domain.Job{}, false
	}

	m.updateActive(job)

	if !job.Status.Terminal() {
		return job, true
	}

	m.stopPolling(jobID)
	m.removeActive(jobID)

	switch job.Status {
	case domain.JobStatusCompleted:
		m.mu.Lock()
		m.completed = append([]domain.Job{job.Clone()}, m.completed...)
		m.mu.Unlock()
		m.bus.Publish(Notification{
			JobID: jobID,
			Type:  NotificationSuccess,
			Kind:  KindGenerationCompleted,
			Title: "Generation completed",
		})
	case domain.JobStatusFailed:
		m.bus.Publish(Notification{
			JobID:   jobID,
			Type:    NotificationError,
			Kind:    KindGenerationFailed,
			Title:   "Generation failed",
			Message: job.Error,
		})
	}

	return job, true
}

func (m *Manager) track(job domain.Job) {
	m.mu.Lock()
	m.active = append(m.active, job.Clone())
	m.mu.Unlock()
}

func (m *Manager) updateActive(job domain.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.active {
		if m.active[i].JobID == job.JobID {
			m.active[i] = job.Clone()
			return
		}
	}
}

func (m *Manager) removeActive(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.active {
		if m.active[i].JobID == jobID {
			m.active = append(m.active[:i], m.active[i+1:]...)
			return
		}
	}
}

func (m *Manager) stopPolling(jobID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cancel, ok := m.polls[jobID]; ok {
		cancel()
		delete(m.polls, jobID)
	}
}
