package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const methodOverrideField = "_method"

// MethodOverride lets HTML forms reach PUT, PATCH and DELETE routes by
// POSTing a _method field or an X-HTTP-Method-Override header. It must be
// registered before any route.
func MethodOverride() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodPost {
			return c.Next()
		}
		override := c.Get("X-HTTP-Method-Override")
		if override == "" {
			override = c.Query(methodOverrideField)
		}
		if override == "" && strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationForm) {
			override = c.FormValue(methodOverrideField)
		}
		switch m := strings.ToUpper(override); m {
		case fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
			c.Method(m)
		}
		return c.Next()
	}
}
