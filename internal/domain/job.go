package domain

import "time"

// JobStatus enumerates job lifecycle states.
type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
	JobStatusCancelled  JobStatus = "cancelled"
)

// Terminal reports whether no further transition exists out of the status.
func (s JobStatus) Terminal() bool {
	switch s {
	case JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return true
	default:
		return false
	}
}

// Job encapsulates the lifecycle of a single generation or edit request.
// The authoritative copy lives in the job store; every other component works
// on snapshots fetched by key.
type Job struct {
	JobID       string    `json:"jobId"`
	Status      JobStatus `json:"status"`
	Progress    int       `json:"progress"`
	PreviewURLs []string  `json:"previewUrls"`
	FinalURL    string    `json:"finalUrl,omitempty"`
	ModelID     string    `json:"modelId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Error       string    `json:"error,omitempty"`
	ETA         *int      `json:"eta,omitempty"`
}

// Clone returns a copy whose preview slice does not alias the original.
func (j Job) Clone() Job {
	out := j
	if j.PreviewURLs != nil {
		out.PreviewURLs = append([]string(nil), j.PreviewURLs...)
	}
	if j.ETA != nil {
		eta := *j.ETA
		out.ETA = &eta
	}
	return out
}
