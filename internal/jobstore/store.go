// Package jobstore holds the single authoritative map from job id to Job.
// Adapters and handlers mutate jobs only through this store; everything they
// read back is a snapshot.
package jobstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"imageforge/internal/domain"
)

// Patch carries the fields of a partial job update. Nil fields are left
// untouched; AppendPreviews is append-only by construction.
type Patch struct {
	Status         *domain.JobStatus
	Progress       *int
	AppendPreviews []string
	FinalURL       *string
	Error          *string
	ETA            *int
}

// Store is an in-memory job map with lifecycle housekeeping. Updates are
// applied as atomic read-modify-write merges against the latest stored value
// under a single mutex, so a concurrent update can never be lost to a stale
// local copy.
type Store struct {
	mu        sync.Mutex
	jobs      map[string]domain.Job
	retention time.Duration
}

// New creates an empty store. Jobs older than the retention window are
// reclaimed by Cleanup.
func New(retention time.Duration) *Store {
	if retention <= 0 {
		retention = 24 * time.Hour
	}
	return &Store{
		jobs:      make(map[string]domain.Job),
		retention: retention,
	}
}

// Create inserts a brand-new job. Ids are generated fresh by adapters, so a
// collision indicates a caller bug and is rejected.
func (s *Store) Create(job domain.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[job.JobID]; exists {
		return domain.ErrDuplicateJob
	}
	s.jobs[job.JobID] = job.Clone()
	return nil
}

// Get returns a snapshot of the job or domain.ErrJobNotFound.
func (s *Store) Get(jobID string) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return domain.Job{}, domain.ErrJobNotFound
	}
	return job.Clone(), nil
}

// Update merges the patch into the stored job and stamps UpdatedAt. Progress
// never regresses while the job stays non-terminal; a patch that moves the
// job to a terminal state may carry any progress value (cancellation resets
// it to zero). Returns the updated snapshot or domain.ErrJobNotFound.
func (s *Store) Update(jobID string, patch Patch) (domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return domain.Job{}, domain.ErrJobNotFound
	}

	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.Progress != nil {
		terminal := patch.Status != nil && patch.Status.Terminal()
		if *patch.Progress >= job.Progress || terminal {
			job.Progress = *patch.Progress
		}
	}
	if len(patch.AppendPreviews) > 0 {
		job.PreviewURLs = append(append([]string(nil), job.PreviewURLs...), patch.AppendPreviews...)
	}
	if patch.FinalURL != nil {
		job.FinalURL = *patch.FinalURL
	}
	if patch.Error != nil {
		job.Error = *patch.Error
	}
	if patch.ETA != nil {
		eta := *patch.ETA
		job.ETA = &eta
	}
	job.UpdatedAt = time.Now()

	s.jobs[jobID] = job
	return job.Clone(), nil
}

// Delete removes the job and reports whether it existed.
func (s *Store) Delete(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.jobs[jobID]
	delete(s.jobs, jobID)
	return ok
}

// List returns all jobs ordered by CreatedAt descending, newest first.
func (s *Store) List() []domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		out = append(out, job.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of stored jobs.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// Cleanup removes every job whose CreatedAt is older than the retention
// window, regardless of terminal status, and returns the removed count.
func (s *Store) Cleanup() int {
	cutoff := time.Now().Add(-s.retention)
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, job := range s.jobs {
		if job.CreatedAt.Before(cutoff) {
			delete(s.jobs, id)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Cleanup on the given interval until the context ends.
// Intended to run as a goroutine for the lifetime of the process.
func (s *Store) RunSweeper(ctx context.Context, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := s.Cleanup(); removed > 0 {
				logger.Info().Int("removed", removed).Msg("jobstore: swept expired jobs")
			}
		}
	}
}
