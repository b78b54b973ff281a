package model

import "time"

// JobStatus is the lifecycle state of one acquisition job.
type JobStatus string

const (
	JobRunning JobStatus = "running"
	JobSuccess JobStatus = "success"
	JobFailed  JobStatus = "failed"
)

// DownloadJob tracks one in-flight or completed acquisition. Progress is
// a fraction in [0,1]; for HLS it is a running estimate and may be
// revised downward before completion.
type DownloadJob struct {
	ID               string     `json:"id"`
	SourceURL        string     `json:"source_url"`
	Kind             string     `json:"kind"`
	Status           JobStatus  `json:"status"`
	ProgressFraction float64    `json:"progress_fraction"`
	ResultLocalPath  string     `json:"result_local_path,omitempty"`
	FailureReason    string     `json:"failure_reason,omitempty"`
	VideoID          string     `json:"video_id,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
}

// CandidateMediaURL is one deduplicated media reference reported by the
// embedded browser's page scanner.
type CandidateMediaURL struct {
	URL      string `json:"url"`
	TypeHint string `json:"type_hint,omitempty"`
	Kind     string `json:"kind"`
}
