package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hirewise/models"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// TrendCache stores trend predictions between dashboard reads.
type TrendCache interface {
	Get(ctx context.Context, providerID string) (*models.TrendPrediction, bool, error)
	Set(ctx context.Context, providerID string, p models.TrendPrediction) error
	Invalidate(ctx context.Context, providerID string) error
}

// SweepLocker keeps two instances from running the batch refresh at the same time.
type SweepLocker interface {
	// TryLock returns a release func when the lock was taken, or ok=false when someone else holds it.
	TryLock(ctx context.Context) (release func(), ok bool, err error)
}

const (
	trendKeyPrefix = "trend:"
	sweepLockKey   = "score:sweep:lock"

	// DefaultSweepLockTTL bounds how long a crashed sweep can block the next one.
	DefaultSweepLockTTL = 30 * time.Minute
)

// RedisTrendCache implements TrendCache on Redis with a fixed TTL.
type RedisTrendCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisTrendCache(client *redis.Client, ttl time.Duration) *RedisTrendCache {
	return &RedisTrendCache{Client: client, TTL: ttl}
}

func (c *RedisTrendCache) Get(ctx context.Context, providerID string) (*models.TrendPrediction, bool, error) {
	raw, err := c.Client.Get(ctx, trendKeyPrefix+providerID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("trend cache get: %w", err)
	}
	var p models.TrendPrediction
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, false, fmt.Errorf("trend cache decode: %w", err)
	}
	return &p, true, nil
}

func (c *RedisTrendCache) Set(ctx context.Context, providerID string, p models.TrendPrediction) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("trend cache encode: %w", err)
	}
	if err := c.Client.Set(ctx, trendKeyPrefix+providerID, raw, c.TTL).Err(); err != nil {
		return fmt.Errorf("trend cache set: %w", err)
	}
	return nil
}

func (c *RedisTrendCache) Invalidate(ctx context.Context, providerID string) error {
	if err := c.Client.Del(ctx, trendKeyPrefix+providerID).Err(); err != nil {
		return fmt.Errorf("trend cache invalidate: %w", err)
	}
	return nil
}

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSweepLocker is a SETNX lock with an expiry so a crashed sweeper cannot hold it forever.
type RedisSweepLocker struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisSweepLocker(client *redis.Client, ttl time.Duration) *RedisSweepLocker {
	return &RedisSweepLocker{Client: client, TTL: ttl}
}

func (l *RedisSweepLocker) TryLock(ctx context.Context) (func(), bool, error) {
	token := uuid.New().String()
	ok, err := l.Client.SetNX(ctx, sweepLockKey, token, l.TTL).Result()
	if err != nil {
		return nil, false, fmt.Errorf("sweep lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.Client, []string{sweepLockKey}, token).Err()
	}
	return release, true, nil
}
