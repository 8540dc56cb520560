// internal/jobs/redis_registry.go
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"styleforge-backend/internal/config"
	"styleforge-backend/internal/models"
)

// DefaultTTL bounds how long a job entry is retained. Jobs complete within
// minutes; anything older is unreachable by the poller anyway.
const DefaultTTL = 24 * time.Hour

type redisRegistry struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRegistry connects to Redis and returns a durable job registry.
// State survives process restarts and is shared across server instances.
func NewRedisRegistry(cfg *config.Config) (Registry, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &redisRegistry{
		client: client,
		ttl:    DefaultTTL,
	}, nil
}

func jobKey(jobID string) string {
	return "job:" + jobID
}

func (r *redisRegistry) Put(ctx context.Context, jobID string, state *models.JobState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode job state: %w", err)
	}
	return r.client.Set(ctx, jobKey(jobID), data, r.ttl).Err()
}

func (r *redisRegistry) Get(ctx context.Context, jobID string) (*models.JobState, error) {
	data, err := r.client.Get(ctx, jobKey(jobID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound(jobID)
		}
		return nil, err
	}

	var state models.JobState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to decode job state: %w", err)
	}
	return &state, nil
}
