package middleware

import (
	"context"
	"errors"
	"net/url"

	"skillswap/internal/models"
	"skillswap/internal/services"
	"skillswap/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// SessionUserKey is the session entry holding the signed-in user's id.
const SessionUserKey = "user"

const (
	localsUserID = "user_id"
	localsUser   = "user"
)

const staleSessionMessage = "Current login status is invalid, may have been removed or session expired, please login again."

// UserLookup resolves a session identity to its stored user.
type UserLookup interface {
	CurrentUser(ctx context.Context, id string) (*models.User, error)
}

// SessionUserID returns the id stored in the request's session, or "".
func SessionUserID(store *session.Store, c *fiber.Ctx) string {
	sess, err := store.Get(c)
	if err != nil {
		return ""
	}
	id, _ := sess.Get(SessionUserKey).(string)
	return id
}

// UserID returns the identity a gate placed in the request locals.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsUserID).(string)
	return id
}

// CurrentUser returns the user record loaded by RequireAuthAPI.
func CurrentUser(c *fiber.Ctx) *models.User {
	u, _ := c.Locals(localsUser).(*models.User)
	return u
}

// RequireAuth redirects anonymous requests to the login page, carrying the
// requested URL so the client can be sent back after signing in.
func RequireAuth(store *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := SessionUserID(store, c)
		if id == "" {
			return c.Redirect("/auth/login?redirect=" + url.QueryEscape(c.OriginalURL()))
		}
		c.Locals(localsUserID, id)
		return c.Next()
	}
}

// RequireAuthAPI answers 401 with needLogin unless the session names a user
// that still exists. A session naming a missing user is destroyed.
func RequireAuthAPI(store *session.Store, users UserLookup, log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := store.Get(c)
		if err != nil {
			log.Error("failed to load session", map[string]interface{}{"error": err})
			return internalError(c)
		}

		id, _ := sess.Get(SessionUserKey).(string)
		if id == "" {
			return unauthorized(c, "Unauthorized")
		}

		user, err := users.CurrentUser(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				if derr := sess.Destroy(); derr != nil {
					log.Warn("failed to destroy stale session", map[string]interface{}{"error": derr})
				}
				return unauthorized(c, "User not found")
			}
			log.Error("auth lookup failed", map[string]interface{}{"user_id": id, "error": err})
			return internalError(c)
		}

		c.Locals(localsUserID, user.ID)
		c.Locals(localsUser, user)
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, reason string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error":     reason,
		"message":   staleSessionMessage,
		"needLogin": true,
	})
}

func internalError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":   "Internal server error",
		"message": "System error, please try again later.",
	})
}
