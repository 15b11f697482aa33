package middleware

import (
	"errors"
	"strconv"
	"time"

	"skillswap/pkg/metrics"

	"github.com/gofiber/fiber/v2"
)

// Metrics records count and latency per method, route pattern and status.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		route := c.Route().Path
		metrics.RecordHttpRequest(c.Method(), route, strconv.Itoa(status), time.Since(start))
		return err
	}
}
