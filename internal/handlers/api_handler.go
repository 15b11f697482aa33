package handlers

import (
	"errors"

	"skillswap/internal/middleware"
	"skillswap/internal/services"
	"skillswap/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

// APIHandler serves the JSON data the static pages render.
type APIHandler struct {
	skillService   *services.SkillService
	profileService *services.ProfileService
	authService    *services.AuthService
	store          *session.Store
	log            logger.Logger
}

func NewAPIHandler(
	skillService *services.SkillService,
	profileService *services.ProfileService,
	authService *services.AuthService,
	store *session.Store,
	log logger.Logger,
) *APIHandler {
	return &APIHandler{
		skillService:   skillService,
		profileService: profileService,
		authService:    authService,
		store:          store,
		log:            log,
	}
}

func (h *APIHandler) RegisterRoutes(router fiber.Router) {
	api := router.Group("/api", middleware.RequireAuthAPI(h.store, h.authService, h.log))
	api.Get("/skills", h.ListSkills)
	api.Get("/skills/categories", h.ListCategories)
	api.Get("/skills/:id", h.GetSkill)
	api.Get("/profile/myskills", h.MySkills)
	api.Get("/profile/favorites", h.Favorites)
	api.Get("/profile/me", h.Me)
}

func (h *APIHandler) ListSkills(c *fiber.Ctx) error {
	skills, err := h.skillService.List(c.UserContext(), c.Query("category"))
	if err != nil {
		h.log.Error("failed to fetch skills", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch skills"})
	}
	return c.JSON(fiber.Map{"skills": skills, "user": middleware.CurrentUser(c)})
}

func (h *APIHandler) ListCategories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": h.skillService.Categories()})
}

func (h *APIHandler) GetSkill(c *fiber.Ctx) error {
	skillID := c.Params("id")
	user := middleware.CurrentUser(c)

	detail, err := h.skillService.Detail(c.UserContext(), skillID, user.ID)
	if err != nil {
		if errors.Is(err, services.ErrMissingID) || errors.Is(err, services.ErrInvalidID) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msgInvalidSkillIDFormat})
		}
		if errors.Is(err, services.ErrSkillNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": msgSkillNotFound})
		}
		h.log.Error("failed to fetch skill details", map[string]interface{}{"skill_id": skillID, "error": err})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(fiber.Map{
		"skill":         detail.Skill,
		"user":          user,
		"isFavorited":   detail.IsFavorited,
		"favoriteCount": detail.FavoriteCount,
		"comments":      detail.Comments,
	})
}

func (h *APIHandler) MySkills(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	skills, err := h.profileService.MySkills(c.UserContext(), user.ID)
	if err != nil {
		return h.internal(c, "failed to fetch user skills", err)
	}
	return c.JSON(fiber.Map{"skills": skills, "user": user})
}

func (h *APIHandler) Favorites(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	favorites, err := h.profileService.Favorites(c.UserContext(), user.ID)
	if err != nil {
		return h.internal(c, "failed to fetch user favorites", err)
	}
	return c.JSON(fiber.Map{"favorites": favorites, "user": user})
}

func (h *APIHandler) Me(c *fiber.Ctx) error {
	user, skills, err := h.profileService.Me(c.UserContext(), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return h.internal(c, "failed to fetch user profile", err)
	}
	return c.JSON(fiber.Map{"user": user, "skills": skills})
}

func (h *APIHandler) internal(c *fiber.Ctx, msg string, err error) error {
	h.log.Error(msg, map[string]interface{}{"user_id": middleware.UserID(c), "error": err})
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
}
