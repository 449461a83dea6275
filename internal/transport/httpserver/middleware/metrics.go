package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"tweet-score-service/internal/metrics"
)

// Metrics returns a middleware recording request count and latency by route
// pattern. Unmatched requests are recorded under "unmatched".
func Metrics(m *metrics.Collectors) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		route := c.Route().Path
		if status == fiber.StatusNotFound && route == "/" && c.Path() != "/" {
			route = "unmatched"
		}

		m.ObserveHTTP(c.Method(), route, status, time.Since(start))

		return err
	}
}
