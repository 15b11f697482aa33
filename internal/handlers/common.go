package handlers

import (
	"encoding/json"
	"errors"
	"net/url"
	"strings"

	"skillswap/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	msgInvalidSkillID       = "Invalid skill ID"
	msgInvalidSkillIDFormat = "Invalid skill ID format"
	msgSkillNotFound        = "Skill not found"
	msgNoPermission         = "No permission"
	msgServerError          = "Server error"
)

// skillErrorStatus maps skill lookup failures to a status and message. ok is
// false for errors that are not part of the lookup vocabulary.
func skillErrorStatus(err error) (status int, msg string, ok bool) {
	switch {
	case errors.Is(err, services.ErrMissingID):
		return fiber.StatusBadRequest, msgInvalidSkillID, true
	case errors.Is(err, services.ErrInvalidID):
		return fiber.StatusBadRequest, msgInvalidSkillIDFormat, true
	case errors.Is(err, services.ErrSkillNotFound):
		return fiber.StatusNotFound, msgSkillNotFound, true
	case errors.Is(err, services.ErrForbidden):
		return fiber.StatusForbidden, msgNoPermission, true
	}
	return fiber.StatusInternalServerError, msgServerError, false
}

// redirectToPage sends the client to a static page with state in the query.
func redirectToPage(c *fiber.Ctx, page string, params url.Values) error {
	if len(params) == 0 {
		return c.Redirect(page)
	}
	return c.Redirect(page + "?" + params.Encode())
}

// redirectPreservingQuery forwards the request's query string to page.
func redirectPreservingQuery(c *fiber.Ctx, page string) error {
	if qs := string(c.Request().URI().QueryString()); qs != "" {
		return c.Redirect(page + "?" + qs)
	}
	return c.Redirect(page)
}

func encodeErrors(msgs []string) string {
	b, err := json.Marshal(msgs)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// safeRedirect accepts only same-site absolute paths.
func safeRedirect(target string) (string, bool) {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "", false
	}
	return target, true
}
