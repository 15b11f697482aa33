package server

import (
	"encoding/base64"
	"errors"
	"os"

	"skillswap/internal/config"
	"skillswap/internal/handlers"
	"skillswap/internal/middleware"
	"skillswap/internal/repositories"
	"skillswap/internal/services"
	"skillswap/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Repositories groups the storage backends the services run on.
type Repositories struct {
	Users     repositories.UserRepository
	Skills    repositories.SkillRepository
	Comments  repositories.CommentRepository
	Favorites repositories.FavoriteRepository
}

// MemoryRepositories returns a Repositories backed by one MemoryStore.
func MemoryRepositories() Repositories {
	store := repositories.NewMemoryStore()
	return Repositories{
		Users:     store.Users(),
		Skills:    store.Skills(),
		Comments:  store.Comments(),
		Favorites: store.Favorites(),
	}
}

// Deps is everything NewApp wires together. SessionStorage and Events are
// optional: nil selects fiber's in-memory session storage and disables
// event publishing.
type Deps struct {
	Config         *config.Config
	Log            logger.Logger
	Repos          Repositories
	SessionStorage fiber.Storage
	Events         services.EventPublisher
	// RequestLog enables fiber's access log.
	RequestLog bool
}

// NewApp builds the fiber application with every route registered.
func NewApp(d Deps) (*fiber.App, error) {
	if d.Log == nil {
		d.Log = logger.Nop()
	}

	app := fiber.New(fiber.Config{
		AppName:      "skillswap",
		ErrorHandler: errorHandler(d.Log),
	})

	// Method override rewrites the method before routing, so it goes first.
	app.Use(middleware.MethodOverride())
	app.Use(recover.New())
	if d.RequestLog {
		app.Use(fiberlogger.New())
	}
	app.Use(middleware.Metrics())

	if secret := d.Config.Session.CookieSecret; secret != "" {
		if key, err := base64.StdEncoding.DecodeString(secret); err != nil || len(key) != 32 {
			return nil, errors.New("COOKIE_SECRET must be a base64 encoded 32 byte key")
		}
		app.Use(encryptcookie.New(encryptcookie.Config{Key: secret}))
	}

	store := session.New(session.Config{
		Expiration:     d.Config.Session.Expiration,
		Storage:        d.SessionStorage,
		KeyLookup:      "cookie:" + d.Config.Session.CookieName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !d.Config.IsDevelopment(),
	})

	authService := services.NewAuthService(d.Repos.Users, d.Events, d.Log)
	skillService := services.NewSkillService(d.Repos.Skills, d.Repos.Comments, d.Repos.Favorites, d.Repos.Users, d.Events, d.Log)
	profileService := services.NewProfileService(d.Repos.Users, d.Repos.Skills, d.Repos.Favorites, d.Log)

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	if dir := d.Config.Server.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			app.Static("/html", dir)
		} else {
			d.Log.Warn("static directory not found, /html is not served", map[string]interface{}{"dir": dir})
		}
	}

	handlers.NewIndexHandler(store).RegisterRoutes(app)
	handlers.NewAuthHandler(authService, store, d.Log).RegisterRoutes(app)
	handlers.NewSkillHandler(skillService, store, d.Log).RegisterRoutes(app)
	handlers.NewProfileHandler(profileService, skillService, store, d.Log).RegisterRoutes(app)
	handlers.NewAPIHandler(skillService, profileService, authService, store, d.Log).RegisterRoutes(app)

	return app, nil
}

func errorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := fiber.StatusInternalServerError, "Internal Server Error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code, msg = fe.Code, fe.Message
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("unhandled request error", map[string]interface{}{
				"method": c.Method(),
				"path":   c.Path(),
				"error":  err,
			})
		}
		return c.Status(code).JSON(fiber.Map{
			"message": msg,
			"error":   err.Error(),
		})
	}
}
