package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cryptguard/cryptguard/internal/config"
)

const nonceKeyPrefix = "replay:nonce:"

// redisGuard is the Redis-backed implementation of [Guard]. Nonces are
// stored with a TTL equal to the window, so eviction is handled by Redis
// and no sweep is needed.
type redisGuard struct {
	client *redis.Client
	window time.Duration
}

// NewRedisGuard connects to Redis and returns a [Guard] that coordinates
// replay protection across instances.
func NewRedisGuard(cfg config.Redis, window time.Duration) (Guard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &redisGuard{client: client, window: window}, nil
}

// Remember implements [Guard]. SET NX is atomic, so two instances racing on
// the same nonce cannot both accept it.
func (g *redisGuard) Remember(ctx context.Context, nonce string) error {
	ok, err := g.client.SetNX(ctx, nonceKeyPrefix+nonce, 1, g.window).Result()
	if err != nil {
		return fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return ErrReplayDetected
	}

	return nil
}
