package handlers

import (
	"net/url"

	"skillswap/internal/middleware"
	"skillswap/internal/services"
	"skillswap/internal/validation"
	"skillswap/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// SkillHandler serves the marketplace pages, comments and favorites.
type SkillHandler struct {
	skillService *services.SkillService
	store        *session.Store
	log          logger.Logger
}

func NewSkillHandler(skillService *services.SkillService, store *session.Store, log logger.Logger) *SkillHandler {
	return &SkillHandler{skillService: skillService, store: store, log: log}
}

func (h *SkillHandler) RegisterRoutes(router fiber.Router) {
	auth := middleware.RequireAuth(h.store)
	sanitize := middleware.SanitizeInput()

	// Mutating routes sanitize the body before the auth gate runs.
	skillRoutes := router.Group("/skills")
	skillRoutes.Get("/", auth, h.ShowSkills)
	// "/new" must precede "/:id".
	skillRoutes.Get("/new", auth, h.ShowNewSkill)
	skillRoutes.Post("/", sanitize, auth, h.CreateSkill)
	skillRoutes.Post("/:id/comment", sanitize, auth, h.CreateComment)
	skillRoutes.Post("/:id/favorite", auth, h.ToggleFavorite)
	skillRoutes.Get("/:id", auth, h.ShowSkill)
}

func (h *SkillHandler) ShowSkills(c *fiber.Ctx) error {
	return redirectPreservingQuery(c, "/html/skills.html")
}

func (h *SkillHandler) ShowNewSkill(c *fiber.Ctx) error {
	return c.Redirect("/html/skillNew.html")
}

func (h *SkillHandler) ShowSkill(c *fiber.Ctx) error {
	return redirectToPage(c, "/html/skillDetail.html", url.Values{"id": {c.Params("id")}})
}

// CreateSkill publishes a listing for the signed-in user.
func (h *SkillHandler) CreateSkill(c *fiber.Ctx) error {
	var in validation.SkillInput
	if err := c.BodyParser(&in); err != nil {
		h.log.Debug("unparseable skill body", map[string]interface{}{"error": err})
	}

	back := func(msgs []string) error {
		return redirectToPage(c, "/html/skillNew.html", url.Values{
			"errors":      {encodeErrors(msgs)},
			"title":       {in.Title},
			"category":    {in.Category},
			"description": {in.Description},
		})
	}

	userID := middleware.UserID(c)
	if _, err := h.skillService.Create(c.UserContext(), userID, in); err != nil {
		if verr, ok := services.AsValidation(err); ok {
			return back(verr.Errors)
		}
		h.log.Error("failed to create skill", map[string]interface{}{"user_id": userID, "error": err})
		return back([]string{"An error occurred while creating the skill. Please try again."})
	}
	return c.Redirect("/skills")
}

// CreateComment answers JSON for the detail page's comment form.
func (h *SkillHandler) CreateComment(c *fiber.Ctx) error {
	var in validation.CommentInput
	if err := c.BodyParser(&in); err != nil {
		h.log.Debug("unparseable comment body", map[string]interface{}{"error": err})
	}

	skillID := c.Params("id")
	userID := middleware.UserID(c)
	comment, err := h.skillService.AddComment(c.UserContext(), skillID, userID, in)
	if err != nil {
		if verr, ok := services.AsValidation(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "errors": verr.Errors})
		}
		if status, msg, ok := skillErrorStatus(err); ok {
			return c.Status(status).JSON(fiber.Map{"success": false, "errors": []string{msg}})
		}
		h.log.Error("failed to create comment", map[string]interface{}{"skill_id": skillID, "user_id": userID, "error": err})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"errors":  []string{"An error occurred while posting the comment. Please try again."},
		})
	}
	return c.JSON(fiber.Map{"success": true, "comment": comment})
}

// ToggleFavorite flips the favorite and returns to the skill page.
func (h *SkillHandler) ToggleFavorite(c *fiber.Ctx) error {
	skillID := c.Params("id")
	userID := middleware.UserID(c)
	if _, err := h.skillService.ToggleFavorite(c.UserContext(), userID, skillID); err != nil {
		if status, msg, ok := skillErrorStatus(err); ok {
			if status == fiber.StatusBadRequest {
				msg = msgInvalidSkillIDFormat
			}
			return c.Status(status).JSON(fiber.Map{"error": msg})
		}
		h.log.Error("failed to toggle favorite", map[string]interface{}{"skill_id": skillID, "user_id": userID, "error": err})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": msgServerError})
	}
	return c.Redirect("/skills/" + skillID)
}
