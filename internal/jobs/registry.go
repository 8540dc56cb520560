// internal/jobs/registry.go
package jobs

import (
	"context"

	"styleforge-backend/internal/models"
	apperrors "styleforge-backend/pkg/errors"
)

// Registry maps a job id to its current state. Entries are written by the
// submission flow and transitioned to a terminal state by the webhook or the
// polling fallback; last-writer-wins per key is acceptable because terminal
// persistence is guarded downstream by a conditional store update.
type Registry interface {
	Put(ctx context.Context, jobID string, state *models.JobState) error
	Get(ctx context.Context, jobID string) (*models.JobState, error)
}

// ErrNotFound is returned by Get for unknown or expired job ids.
func ErrNotFound(jobID string) error {
	return apperrors.NewJobNotFoundError(jobID)
}
