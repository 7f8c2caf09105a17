package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"food-ordering/internal/config"

	"github.com/redis/go-redis/v9"
)

// Revoker remembers logged-out session IDs until their cookies would have
// expired anyway.
type Revoker interface {
	Revoke(ctx context.Context, id string, until time.Time) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// memoryRevoker keeps revocations in process; they are lost on restart.
type memoryRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

// NewMemoryRevoker returns a process-local Revoker.
func NewMemoryRevoker() Revoker {
	return &memoryRevoker{
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func (r *memoryRevoker) Revoke(_ context.Context, id string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for k, exp := range r.revoked {
		if !exp.After(now) {
			delete(r.revoked, k)
		}
	}

	if until.After(now) {
		r.revoked[id] = until
	}
	return nil
}

func (r *memoryRevoker) IsRevoked(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	exp, ok := r.revoked[id]
	return ok && exp.After(r.now()), nil
}

// redisKeyPrefix namespaces revocation keys.
const redisKeyPrefix = "session:revoked:"

// redisRevoker shares revocations between server instances.
type redisRevoker struct {
	client *redis.Client
}

// NewRedisRevoker returns a Revoker backed by Redis keys with TTLs.
func NewRedisRevoker(client *redis.Client) Revoker {
	return &redisRevoker{client: client}
}

func (r *redisRevoker) Revoke(ctx context.Context, id string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}

	if err := r.client.Set(ctx, redisKeyPrefix+id, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store revocation: %w", err)
	}
	return nil
}

func (r *redisRevoker) IsRevoked(ctx context.Context, id string) (bool, error) {
	n, err := r.client.Exists(ctx, redisKeyPrefix+id).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check revocation: %w", err)
	}
	return n > 0, nil
}

// ConnectRedis opens a client for cfg and verifies it with a ping.
func ConnectRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return client, nil
}
