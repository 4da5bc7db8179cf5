package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Limiter defines rate limiting behavior
type Limiter interface {
	// Allow checks if a request should be allowed
	Allow(ctx context.Context, key string) (bool, error)

	// GetRemaining returns remaining quota for a key
	GetRemaining(ctx context.Context, key string) (int64, error)

	// Reset clears the counter for a key
	Reset(ctx context.Context, key string) error
}

// Config defines rate limiter configuration
type Config struct {
	// Limit is the maximum number of requests allowed per window
	Limit int64

	// Window is the time window for the rate limit
	Window time.Duration

	// KeyPrefix is prepended to all Redis keys
	KeyPrefix string
}

// DefaultConfig allows 100 requests per minute
func DefaultConfig() Config {
	return Config{
		Limit:     100,
		Window:    time.Minute,
		KeyPrefix: "ratelimit",
	}
}

// SlidingWindowLimiter implements distributed rate limiting over Redis with
// a sliding window. Counters are scoped by key and expire on their own.
type SlidingWindowLimiter struct {
	redis  *redis.Client
	config Config
	logger *zap.Logger
}

// NewSlidingWindowLimiter creates a new Redis-backed limiter
func NewSlidingWindowLimiter(client *redis.Client, config Config, logger *zap.Logger) *SlidingWindowLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "ratelimit"
	}
	return &SlidingWindowLimiter{
		redis:  client,
		config: config,
		logger: logger,
	}
}

// Allow checks if a request should be allowed
func (l *SlidingWindowLimiter) Allow(ctx context.Context, key string) (bool, error) {
	redisKey := l.makeKey(key)
	now := time.Now()
	windowStart := now.Add(-l.config.Window)

	pipe := l.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.UnixNano()))
	countCmd := pipe.ZCount(ctx, redisKey, fmt.Sprintf("%d", windowStart.UnixNano()), "+inf")
	pipe.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.UnixNano()),
		Member: now.UnixNano(),
	})
	pipe.Expire(ctx, redisKey, l.config.Window*2)

	if _, err := pipe.Exec(ctx); err != nil {
		l.logger.Error("Failed to execute rate limit pipeline",
			zap.Error(err),
			zap.String("key", key))
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}

	return countCmd.Val() < l.config.Limit, nil
}

// GetRemaining returns remaining quota for a key
func (l *SlidingWindowLimiter) GetRemaining(ctx context.Context, key string) (int64, error) {
	redisKey := l.makeKey(key)
	windowStart := time.Now().Add(-l.config.Window)

	count, err := l.redis.ZCount(ctx, redisKey,
		fmt.Sprintf("%d", windowStart.UnixNano()), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count rate limit window: %w", err)
	}

	remaining := l.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// Reset clears the counter for a key
func (l *SlidingWindowLimiter) Reset(ctx context.Context, key string) error {
	return l.redis.Del(ctx, l.makeKey(key)).Err()
}

func (l *SlidingWindowLimiter) makeKey(key string) string {
	return l.config.KeyPrefix + ":" + key
}
