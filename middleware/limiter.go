package middleware

import (
	"time"

	"jetacademy/config"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// AuthRateLimiter throttles credential endpoints per client IP.
func AuthRateLimiter() fiber.Handler {
	limit := config.AppConfig.AuthRateLimit
	return limiter.New(limiter.Config{
		Next:       func(*fiber.Ctx) bool { return limit <= 0 },
		Max:        limit,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many attempts. Please try again later.", nil)
		},
	})
}
