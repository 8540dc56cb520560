// internal/jobs/memory_registry.go
package jobs

import (
	"context"
	"sync"

	"styleforge-backend/internal/models"
)

type memoryRegistry struct {
	mu    sync.RWMutex
	items map[string]models.JobState
}

// NewMemoryRegistry returns a process-local registry. Entries do not survive
// a restart; intended for tests and single-node deployments without Redis.
func NewMemoryRegistry() Registry {
	return &memoryRegistry{
		items: make(map[string]models.JobState),
	}
}

func (r *memoryRegistry) Put(_ context.Context, jobID string, state *models.JobState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[jobID] = *state
	return nil
}

func (r *memoryRegistry) Get(_ context.Context, jobID string) (*models.JobState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.items[jobID]
	if !ok {
		return nil, ErrNotFound(jobID)
	}
	copy := state
	return &copy, nil
}
