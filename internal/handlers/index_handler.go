package handlers

import (
	"time"

	"skillswap/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// IndexHandler serves the landing redirect and the health check.
type IndexHandler struct {
	store *session.Store
}

func NewIndexHandler(store *session.Store) *IndexHandler {
	return &IndexHandler{store: store}
}

func (h *IndexHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/", h.Landing)
	router.Get("/health", h.Health)
}

// Landing sends signed-in users to the marketplace and everyone else to the
// landing page.
func (h *IndexHandler) Landing(c *fiber.Ctx) error {
	if middleware.SessionUserID(h.store, c) != "" {
		return c.Redirect("/skills")
	}
	return c.Redirect("/html/landing.html")
}

func (h *IndexHandler) Health(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
