package health

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisChecker verifies Redis connectivity
type RedisChecker struct {
	client *redis.Client
}

// NewRedisChecker creates a new Redis checker
func NewRedisChecker(client *redis.Client) *RedisChecker {
	return &RedisChecker{client: client}
}

// Name returns the component name
func (c *RedisChecker) Name() string {
	return "redis"
}

// Check pings Redis
func (c *RedisChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Component: c.Name(),
		Timestamp: start,
	}

	if err := c.client.Ping(ctx).Err(); err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	} else {
		result.Status = StatusHealthy
	}

	result.Duration = time.Since(start)
	return result
}
