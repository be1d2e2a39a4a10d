package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/scholarsknowledge/api/utils/cache"
	"github.com/scholarsknowledge/api/utils/response"
)

// ForgotPasswordThrottle rate-limits reset-token issuance per client IP
// using Redis. Token issuance always reports success to the caller, so
// the only abuse signal available is request volume.
type ForgotPasswordThrottle struct {
	redisCache *cache.RedisCache
}

// NewForgotPasswordThrottle creates a new throttle instance
func NewForgotPasswordThrottle(redisCache *cache.RedisCache) *ForgotPasswordThrottle {
	return &ForgotPasswordThrottle{
		redisCache: redisCache,
	}
}

// Check middleware rejects requests from locked-out IPs and counts every
// attempt toward progressive lockouts.
func (b *ForgotPasswordThrottle) Check() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		lockKey := fmt.Sprintf("forgot_password:lock:%s", ip)

		locked, err := b.redisCache.Exists(c.Context(), lockKey)
		if err != nil {
			// If Redis is down, allow the request. Don't block
			// legitimate users over a cache outage.
			return c.Next()
		}

		if locked {
			ttl, _ := b.redisCache.TTL(c.Context(), lockKey)
			retryAfter := int(ttl.Seconds())
			if retryAfter < 0 {
				retryAfter = 60
			}

			c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			return response.TooManyRequests(c, fmt.Sprintf("Too many reset requests. Try again in %d seconds", retryAfter))
		}

		b.recordAttempt(c, ip)
		return c.Next()
	}
}

// recordAttempt increments the per-IP counter and applies progressive
// lockouts once it crosses the thresholds.
func (b *ForgotPasswordThrottle) recordAttempt(c *fiber.Ctx, ip string) {
	ctx := c.Context()
	attemptKey := fmt.Sprintf("forgot_password:attempts:%s", ip)
	lockKey := fmt.Sprintf("forgot_password:lock:%s", ip)

	attempts, err := b.redisCache.Increment(ctx, attemptKey)
	if err != nil {
		return
	}

	// 15 minute counting window
	if attempts == 1 {
		b.redisCache.Expire(ctx, attemptKey, 15*time.Minute)
	}

	var lockDuration time.Duration
	switch {
	case attempts >= 20:
		lockDuration = 24 * time.Hour
	case attempts >= 10:
		lockDuration = 1 * time.Hour
	case attempts >= 5:
		lockDuration = 5 * time.Minute
	default:
		return
	}

	b.redisCache.Set(ctx, lockKey, "locked", lockDuration)
}
