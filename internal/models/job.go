// internal/models/job.go
package models

// Job status values as observed by the client poller.
const (
	JobQueued    = "QUEUED"
	JobRunning   = "RUNNING"
	JobSucceeded = "SUCCEEDED"
	JobFailed    = "FAILED"
)

// JobImage is a single generated image reference.
type JobImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// JobState is the registry entry for one submitted transformation job.
type JobState struct {
	Status           string     `json:"status"`
	RequestID        string     `json:"requestId,omitempty"`
	TransformationID string     `json:"transformationId,omitempty"`
	UserID           string     `json:"userId,omitempty"`
	Images           []JobImage `json:"images,omitempty"`
	Error            string     `json:"error,omitempty"`
	StartedAtUnixMs  int64      `json:"startedAtUnixMs,omitempty"`
}

// Terminal reports whether the job has reached a final state.
func (s *JobState) Terminal() bool {
	return s.Status == JobSucceeded || s.Status == JobFailed
}
