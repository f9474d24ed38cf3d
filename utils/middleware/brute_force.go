package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"iqroai/utils/cache"
	"iqroai/utils/response"
)

const (
	maxLoginAttempts = 5
	lockoutDuration  = 15 * time.Minute
	attemptWindow    = 5 * time.Minute
)

// BruteForceProtection tracks failed login attempts per client IP.
// When Redis is unavailable the middleware degrades to a no-op.
type BruteForceProtection struct {
	cache *cache.RedisCache
}

// NewBruteForceProtection creates the protection middleware
func NewBruteForceProtection(redisCache *cache.RedisCache) *BruteForceProtection {
	return &BruteForceProtection{
		cache: redisCache,
	}
}

// CheckLoginAttempts blocks requests from IPs with too many recent failures
func (b *BruteForceProtection) CheckLoginAttempts() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if b.cache == nil {
			return c.Next()
		}

		ip := c.IP()
		lockKey := fmt.Sprintf("login:lock:%s", ip)

		locked, err := b.cache.Exists(c.Context(), lockKey)
		if err != nil {
			log.Warnf("brute force check failed, allowing request: %v", err)
			return c.Next()
		}
		if locked {
			return response.TooManyRequests(c, "Too many failed login attempts. Try again later.")
		}

		return c.Next()
	}
}

// RecordFailedAttempt increments the failure counter for an IP and
// locks the IP out once the threshold is reached.
func (b *BruteForceProtection) RecordFailedAttempt(ctx context.Context, ip string) {
	if b.cache == nil {
		return
	}

	countKey := fmt.Sprintf("login:attempts:%s", ip)

	count, err := b.cache.Increment(ctx, countKey)
	if err != nil {
		log.Warnf("failed to record login attempt: %v", err)
		return
	}

	if count == 1 {
		if err := b.cache.Expire(ctx, countKey, attemptWindow); err != nil {
			log.Warnf("failed to set attempt window: %v", err)
		}
	}

	if count >= maxLoginAttempts {
		lockKey := fmt.Sprintf("login:lock:%s", ip)
		if err := b.cache.Set(ctx, lockKey, "1", lockoutDuration); err != nil {
			log.Warnf("failed to lock out IP %s: %v", ip, err)
		}
	}
}

// ResetAttempts clears the failure counter after a successful login
func (b *BruteForceProtection) ResetAttempts(ctx context.Context, ip string) {
	if b.cache == nil {
		return
	}

	countKey := fmt.Sprintf("login:attempts:%s", ip)
	if err := b.cache.Delete(ctx, countKey); err != nil {
		log.Warnf("failed to reset login attempts: %v", err)
	}
}
