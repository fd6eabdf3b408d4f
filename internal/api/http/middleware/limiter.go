package middleware

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/limiter"

	"github.com/Alijeyrad/clinicdesk_backend/config"
)

const tooManyRequests = "too many requests, please try again later"

func limitOrDefault(cfg config.RateLimitConfig, limit int, exp time.Duration) (int, time.Duration) {
	if cfg.Max > 0 {
		limit = cfg.Max
	}
	if cfg.ExpirationSeconds > 0 {
		exp = time.Duration(cfg.ExpirationSeconds) * time.Second
	}
	return limit, exp
}

// NewLimiter is the global sliding-window limiter. storage may be nil for an
// in-memory window.
func NewLimiter(storage fiber.Storage, cfg config.RateLimitConfig) fiber.Handler {
	limit, exp := limitOrDefault(cfg, 20, 30*time.Second)
	return limiter.New(limiter.Config{
		Storage: storage,

		// sliding window
		Max:               limit,
		Expiration:        exp,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached:      limitReached,
	})
}

// NewPublicBookingLimiter throttles the unauthenticated booking form per
// client IP, separately from the global window.
func NewPublicBookingLimiter(storage fiber.Storage, cfg config.RateLimitConfig) fiber.Handler {
	limit, exp := limitOrDefault(cfg, 5, 10*time.Minute)
	return limiter.New(limiter.Config{
		Storage:    storage,
		Max:        limit,
		Expiration: exp,
		KeyGenerator: func(c fiber.Ctx) string {
			return "public_booking:" + c.IP()
		},
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached:      limitReached,
	})
}

func limitReached(c fiber.Ctx) error {
	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": tooManyRequests})
}
