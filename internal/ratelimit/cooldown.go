package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrCooldownActive = errors.New("submission cooldown active")

const keyPrefix = "cooldown:submit:"

// CooldownError carries how long the client has to wait. It matches
// ErrCooldownActive with errors.Is.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s, retry after %s", ErrCooldownActive, e.RetryAfter.Round(time.Second))
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrCooldownActive
}

// Cooldown allows one submit per client per window, shared across instances
// through Redis.
type Cooldown struct {
	rdb    *redis.Client
	window time.Duration
	logger *zap.Logger
}

func NewCooldown(rdb *redis.Client, window time.Duration, logger *zap.Logger) *Cooldown {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cooldown{rdb: rdb, window: window, logger: logger}
}

// Enabled is false when there is no Redis client or no window.
func (c *Cooldown) Enabled() bool {
	return c != nil && c.rdb != nil && c.window > 0
}

// Acquire starts the window for clientID, or returns a *CooldownError if one
// is already running. Redis failures let the request through.
func (c *Cooldown) Acquire(ctx context.Context, clientID string) error {
	if !c.Enabled() {
		return nil
	}
	key := keyPrefix + clientID

	ok, err := c.rdb.SetNX(ctx, key, time.Now().UTC().Unix(), c.window).Result()
	if err != nil {
		c.logger.Warn("cooldown check failed, allowing request", zap.String("client", clientID), zap.Error(err))
		return nil
	}
	if ok {
		return nil
	}

	ttl, err := c.rdb.PTTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		ttl = c.window
	}
	return &CooldownError{RetryAfter: ttl}
}

// Reset clears the window for clientID.
func (c *Cooldown) Reset(ctx context.Context, clientID string) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Del(ctx, keyPrefix+clientID).Err()
}
