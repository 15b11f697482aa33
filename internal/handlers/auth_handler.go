package handlers

import (
	"errors"
	"net/url"
	"strings"

	"skillswap/internal/middleware"
	"skillswap/internal/services"
	"skillswap/internal/validation"
	"skillswap/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// AuthHandler handles registration, login, logout and availability probes.
type AuthHandler struct {
	authService *services.AuthService
	store       *session.Store
	log         logger.Logger
}

func NewAuthHandler(authService *services.AuthService, store *session.Store, log logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, store: store, log: log}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Get("/login", h.ShowLogin)
	authRoutes.Get("/register", h.ShowRegister)
	authRoutes.Post("/register", middleware.SanitizeInput(), h.HandleRegister)
	authRoutes.Post("/login", middleware.SanitizeInput(), h.HandleLogin)
	authRoutes.Get("/logout", h.HandleLogout)
	authRoutes.Get("/check-username", h.CheckUsername)
	authRoutes.Get("/check-email", h.CheckEmail)
}

func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	return redirectPreservingQuery(c, "/html/login.html")
}

func (h *AuthHandler) ShowRegister(c *fiber.Ctx) error {
	return c.Redirect("/html/register.html")
}

// HandleRegister creates the account and sends the user to the login page.
// Failures return to the form with the first message and the entered
// username and email.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var in validation.RegistrationInput
	if err := c.BodyParser(&in); err != nil {
		h.log.Debug("unparseable register body", map[string]interface{}{"error": err})
	}

	back := func(msg string) error {
		return redirectToPage(c, "/html/register.html", url.Values{
			"error":    {msg},
			"username": {in.Username},
			"email":    {in.Email},
		})
	}

	if _, err := h.authService.Register(c.UserContext(), in); err != nil {
		if verr, ok := services.AsValidation(err); ok {
			return back(verr.Errors[0])
		}
		h.log.Error("registration failed", map[string]interface{}{"username": in.Username, "error": err})
		return back("An error occurred during registration. Please try again.")
	}
	return c.Redirect("/auth/login")
}

type loginForm struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Redirect string `json:"redirect" form:"redirect"`
}

// HandleLogin starts a fresh session holding the user's id.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var form loginForm
	if err := c.BodyParser(&form); err != nil {
		h.log.Debug("unparseable login body", map[string]interface{}{"error": err})
	}

	back := func(msg string) error {
		return redirectToPage(c, "/html/login.html", url.Values{
			"error":    {msg},
			"username": {form.Username},
		})
	}

	user, err := h.authService.Login(c.UserContext(), validation.LoginInput{Username: form.Username, Password: form.Password})
	if err != nil {
		if verr, ok := services.AsValidation(err); ok {
			return back(strings.Join(verr.Errors, ", "))
		}
		switch {
		case errors.Is(err, services.ErrUnknownUser):
			return back("User does not exist")
		case errors.Is(err, services.ErrIncorrectPassword):
			return back("Incorrect password")
		}
		h.log.Error("login failed", map[string]interface{}{"username": form.Username, "error": err})
		return back("Login failed, please try again")
	}

	sess, err := h.store.Get(c)
	if err != nil {
		h.log.Error("failed to load session", map[string]interface{}{"error": err})
		return back("Login failed, please try again")
	}
	if err := sess.Regenerate(); err != nil {
		h.log.Error("failed to regenerate session", map[string]interface{}{"error": err})
		return back("Login failed, please try again")
	}
	sess.Set(middleware.SessionUserKey, user.ID)
	if err := sess.Save(); err != nil {
		h.log.Error("failed to save session", map[string]interface{}{"user_id": user.ID, "error": err})
		return back("Login failed, please try again")
	}

	target := form.Redirect
	if target == "" {
		target = c.Query("redirect")
	}
	if dest, ok := safeRedirect(target); ok {
		return c.Redirect(dest)
	}
	return c.Redirect("/skills")
}

func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if sess, err := h.store.Get(c); err == nil {
		if err := sess.Destroy(); err != nil {
			h.log.Warn("failed to destroy session", map[string]interface{}{"error": err})
		}
	}
	return c.Redirect("/auth/login")
}

// CheckUsername answers {available} for the registration form.
func (h *AuthHandler) CheckUsername(c *fiber.Ctx) error {
	available, err := h.authService.CheckUsername(c.UserContext(), c.Query("username"))
	return h.availability(c, available, err)
}

// CheckEmail answers {available} for the registration form.
func (h *AuthHandler) CheckEmail(c *fiber.Ctx) error {
	available, err := h.authService.CheckEmail(c.UserContext(), c.Query("email"))
	return h.availability(c, available, err)
}

func (h *AuthHandler) availability(c *fiber.Ctx, available bool, err error) error {
	if err != nil {
		if verr, ok := services.AsValidation(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"available": false,
				"error":     verr.Errors[0],
			})
		}
		h.log.Error("availability check failed", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgServerError})
	}
	return c.JSON(fiber.Map{"available": available})
}
