package middleware

import (
	"encoding/json"
	"strings"

	"skillswap/internal/sanitize"

	"github.com/gofiber/fiber/v2"
)

// SanitizeInput escapes markup in every string field of a JSON or
// urlencoded request body before handlers parse it.
func SanitizeInput() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ct := strings.ToLower(c.Get(fiber.HeaderContentType))
		switch {
		case strings.HasPrefix(ct, fiber.MIMEApplicationJSON):
			sanitizeJSON(c)
		case strings.HasPrefix(ct, fiber.MIMEApplicationForm):
			sanitizeForm(c)
		}
		return c.Next()
	}
}

func sanitizeJSON(c *fiber.Ctx) {
	body := c.Body()
	if len(body) == 0 {
		return
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		// Not an object; the handler's parser reports it.
		return
	}
	cleaned, err := json.Marshal(sanitize.Map(fields))
	if err != nil {
		return
	}
	c.Request().SetBody(cleaned)
}

func sanitizeForm(c *fiber.Ctx) {
	args := c.Request().PostArgs()
	type pair struct{ key, value string }
	var pairs []pair
	args.VisitAll(func(k, v []byte) {
		pairs = append(pairs, pair{key: string(k), value: sanitize.String(string(v))})
	})

	args.Reset()
	for _, p := range pairs {
		args.Add(p.key, p.value)
	}
	c.Request().SetBodyString(args.String())
}
