package handlers

import (
	"errors"
	"net/url"

	"skillswap/internal/middleware"
	"skillswap/internal/services"
	"skillswap/internal/validation"
	"skillswap/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// ProfileHandler serves the signed-in user's pages, profile edits and
// skill edit/delete.
type ProfileHandler struct {
	profileService *services.ProfileService
	skillService   *services.SkillService
	store          *session.Store
	log            logger.Logger
}

func NewProfileHandler(profileService *services.ProfileService, skillService *services.SkillService, store *session.Store, log logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		skillService:   skillService,
		store:          store,
		log:            log,
	}
}

func (h *ProfileHandler) RegisterRoutes(router fiber.Router) {
	profileRoutes := router.Group("/profile")
	profileRoutes.Get("/api/user/:userId/skills", h.ListUserSkillTitles)

	auth := middleware.RequireAuth(h.store)
	sanitize := middleware.SanitizeInput()
	profileRoutes.Get("/myskills", auth, page("/html/mySkills.html"))
	profileRoutes.Get("/favorites", auth, page("/html/myFavorites.html"))
	profileRoutes.Get("/me", auth, page("/html/profile.html"))
	profileRoutes.Get("/edit", auth, page("/html/editProfile.html"))
	profileRoutes.Post("/edit", sanitize, auth, h.UpdateProfile)
	profileRoutes.Post("/check-username", auth, h.CheckUsername)
	profileRoutes.Post("/check-email", auth, h.CheckEmail)

	// Parameterised routes come last.
	profileRoutes.Get("/edit/:id", auth, h.ShowEditSkill)
	profileRoutes.Get("/:id", auth, h.ShowEditSkill)
	profileRoutes.Put("/:id", sanitize, auth, h.UpdateSkill)
	profileRoutes.Delete("/:id", auth, h.DeleteSkill)
}

func page(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Redirect(path)
	}
}

// UpdateProfile applies a profile edit or returns to the form with every
// failing field's message.
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	var in validation.ProfileInput
	if err := c.BodyParser(&in); err != nil {
		h.log.Debug("unparseable profile body", map[string]interface{}{"error": err})
	}

	userID := middleware.UserID(c)
	if _, err := h.profileService.UpdateProfile(c.UserContext(), userID, in); err != nil {
		if verr, ok := services.AsValidation(err); ok {
			return redirectToPage(c, "/html/editProfile.html", url.Values{
				"errors":   {encodeErrors(verr.Errors)},
				"username": {in.Username},
				"email":    {in.Email},
				"contact":  {in.Contact},
			})
		}
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "User not found"})
		}
		h.log.Error("failed to update profile", map[string]interface{}{"user_id": userID, "error": err})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": msgServerError})
	}
	return c.Redirect("/profile/me")
}

type probeForm struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
}

// CheckUsername answers {exists} when another user holds the name.
func (h *ProfileHandler) CheckUsername(c *fiber.Ctx) error {
	var in probeForm
	_ = c.BodyParser(&in)

	exists, err := h.profileService.UsernameTaken(c.UserContext(), middleware.UserID(c), in.Username)
	if err != nil {
		if verr, ok := services.AsValidation(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"exists": false, "error": verr.Errors[0]})
		}
		h.log.Error("username probe failed", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"exists": false,
			"error":  "Error checking username. Please try again.",
		})
	}
	return c.JSON(fiber.Map{"exists": exists})
}

// CheckEmail answers {exists} when another user holds the address.
func (h *ProfileHandler) CheckEmail(c *fiber.Ctx) error {
	var in probeForm
	_ = c.BodyParser(&in)

	exists, err := h.profileService.EmailTaken(c.UserContext(), middleware.UserID(c), in.Email)
	if err != nil {
		h.log.Error("email probe failed", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgServerError})
	}
	return c.JSON(fiber.Map{"exists": exists})
}

// ListUserSkillTitles is public: [{id, title}] for a user's listings.
func (h *ProfileHandler) ListUserSkillTitles(c *fiber.Ctx) error {
	titles, err := h.skillService.ListTitlesByUser(c.UserContext(), c.Params("userId"))
	if err != nil {
		h.log.Error("failed to list skill titles", map[string]interface{}{"user_id": c.Params("userId"), "error": err})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": msgServerError})
	}
	return c.JSON(titles)
}

// ShowEditSkill checks ownership before sending the owner to the edit page.
func (h *ProfileHandler) ShowEditSkill(c *fiber.Ctx) error {
	skillID := c.Params("id")
	if _, err := h.skillService.GetOwned(c.UserContext(), skillID, middleware.UserID(c)); err != nil {
		return h.skillFailure(c, skillID, err)
	}
	return redirectToPage(c, "/html/editSkill.html", url.Values{"id": {skillID}})
}

func (h *ProfileHandler) UpdateSkill(c *fiber.Ctx) error {
	var in validation.SkillInput
	if err := c.BodyParser(&in); err != nil {
		h.log.Debug("unparseable skill body", map[string]interface{}{"error": err})
	}

	skillID := c.Params("id")
	if _, err := h.skillService.Update(c.UserContext(), skillID, middleware.UserID(c), in); err != nil {
		if verr, ok := services.AsValidation(err); ok {
			return redirectToPage(c, "/html/editSkill.html", url.Values{
				"id":     {skillID},
				"errors": {encodeErrors(verr.Errors)},
			})
		}
		return h.skillFailure(c, skillID, err)
	}
	return c.Redirect("/profile/myskills")
}

func (h *ProfileHandler) DeleteSkill(c *fiber.Ctx) error {
	skillID := c.Params("id")
	if err := h.skillService.Delete(c.UserContext(), skillID, middleware.UserID(c)); err != nil {
		return h.skillFailure(c, skillID, err)
	}
	return c.Redirect("/profile/myskills")
}

func (h *ProfileHandler) skillFailure(c *fiber.Ctx, skillID string, err error) error {
	status, msg, ok := skillErrorStatus(err)
	if !ok {
		h.log.Error("skill operation failed", map[string]interface{}{"skill_id": skillID, "error": err})
	}
	return c.Status(status).SendString(msg)
}
