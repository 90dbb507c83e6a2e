// Package cache keeps each athlete's last composite status in Redis, guarded
// by a circuit breaker.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/recruitkit/internal/recruiting/domain/progress"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "recruitkit:progress:status:"

// RedisStatusStore implements progress.StatusStore on Redis.
type RedisStatusStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStatusStore creates a store. A zero ttl keeps statuses forever.
func NewRedisStatusStore(client *redis.Client, ttl time.Duration) *RedisStatusStore {
	return &RedisStatusStore{client: client, ttl: ttl}
}

// Connect parses url, pings the server and returns a client.
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func statusKey(athleteID uuid.UUID) string {
	return keyPrefix + athleteID.String()
}

func (s *RedisStatusStore) LastStatus(ctx context.Context, athleteID uuid.UUID) (progress.CompositeStatus, bool, error) {
	raw, err := s.client.Get(ctx, statusKey(athleteID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return progress.CompositeStatus{}, false, nil
	}
	if err != nil {
		return progress.CompositeStatus{}, false, err
	}

	var status progress.CompositeStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return progress.CompositeStatus{}, false, fmt.Errorf("decode cached status: %w", err)
	}
	status.Label = progress.ParseLabel(status.Label.String())
	return status, true, nil
}

func (s *RedisStatusStore) SaveStatus(ctx context.Context, athleteID uuid.UUID, status progress.CompositeStatus) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, statusKey(athleteID), raw, s.ttl).Err()
}

// Ping reports whether Redis is reachable.
func (s *RedisStatusStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
