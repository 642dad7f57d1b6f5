package middleware

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestObserver receives one observation per finished request.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// RequestMetrics reports method, matched route pattern, status and latency
// of every request.
func RequestMetrics(obs RequestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		route := c.Route().Path
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
			if status == fiber.StatusNotFound {
				route = "unmatched"
			}
		}

		obs.ObserveRequest(c.Method(), route, status, time.Since(start))
		return err
	}
}
