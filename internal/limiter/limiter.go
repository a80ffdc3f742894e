// Package limiter implements a fixed-window request limiter on Redis.
// Counters are INCR'd and expired in one pipeline so a crashed request
// cannot leave an immortal key behind.
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type ActionConfig struct {
	Limit  int64
	Window time.Duration
}

// DefaultLimits covers the abuse-prone actions. OTP issuance is the only
// lifecycle-adjacent one; catalog mutations are gated by auth instead.
var DefaultLimits = map[string]ActionConfig{
	"otp_request": {Limit: 5, Window: 15 * time.Minute},
	"otp_verify":  {Limit: 10, Window: 15 * time.Minute},
	"ai_generate": {Limit: 20, Window: time.Hour},
	"screenshot":  {Limit: 20, Window: time.Hour},
}

type Limiter struct {
	client *redis.Client
}

type CheckResult struct {
	Allowed   bool  `json:"allowed"`
	Remaining int64 `json:"remaining"`
	ResetAt   int64 `json:"reset_at"`
	Limit     int64 `json:"limit"`
}

func NewLimiter(client *redis.Client) *Limiter {
	return &Limiter{client: client}
}

func (l *Limiter) Check(ctx context.Context, clientID, action string) (*CheckResult, error) {
	config, ok := DefaultLimits[action]
	if !ok {
		// Default limit for unknown actions
		config = ActionConfig{Limit: 100, Window: time.Minute}
	}

	key := fmt.Sprintf("toolshub:rate:%s:%s", clientID, action)

	count, err := l.incr(ctx, key, config.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to increment counter: %w", err)
	}

	ttl, err := l.client.TTL(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get TTL: %w", err)
	}

	resetAt := time.Now().Add(ttl).Unix()
	remaining := config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &CheckResult{
		Allowed:   count <= config.Limit,
		Remaining: remaining,
		ResetAt:   resetAt,
		Limit:     config.Limit,
	}, nil
}

func (l *Limiter) incr(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	pipe := l.client.Pipeline()

	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return 0, err
	}

	return incr.Val(), nil
}
