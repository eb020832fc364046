// Package progressive derives the display state for a job from its latest
// snapshot. Pure functions only: everything here can be recomputed from the
// snapshot alone.
package progressive

import "imageforge/internal/domain"

// View is what should be displayed right now for a job.
type View struct {
	CurrentImage string
	Previews     []string
	Loading      bool
	Progress     int
	ETA          *int
	Error        string
}

// Project computes the view for the given job snapshot. A nil job yields the
// empty, non-loading view.
func Project(job *domain.Job) View {
	if job == nil {
		return View{}
	}

	view := View{
		Progress: job.Progress,
		ETA:      job.ETA,
		Error:    job.Error,
		Loading:  job.Status == domain.JobStatusPending || job.Status == domain.JobStatusProcessing,
	}

	if len(job.PreviewURLs) > 0 {
		view.Previews = append([]string(nil), job.PreviewURLs...)
		// Progressive refinement: the newest preview stands in for the
		// final image until it arrives.
		view.CurrentImage = job.PreviewURLs[len(job.PreviewURLs)-1]
	}

	if job.Status == domain.JobStatusCompleted && job.FinalURL != "" {
		view.CurrentImage = job.FinalURL
	}

	return view
}

// Latest picks the most recently started job from the slice, or nil when the
// slice is empty.
func Latest(jobs []domain.Job) *domain.Job {
	if len(jobs) == 0 {
		return nil
	}
	latest := jobs[0]
	for _, job := range jobs[1:] {
		if job.CreatedAt.After(latest.CreatedAt) {
			latest = job
		}
	}
	return &latest
}
