package main

import (
	"os"
	"os/signal"
	"syscall"

	"skillswap/internal/config"
	"skillswap/internal/database"
	"skillswap/internal/repositories"
	"skillswap/internal/server"
	"skillswap/internal/services"
	"skillswap/pkg/logger"
	"skillswap/pkg/rabbitmq"
	"skillswap/pkg/session"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.InfoLevel, "production", os.Stderr).Fatal("failed to load configuration", map[string]interface{}{"error": err})
	}

	log := logger.New(logger.LogLevel(cfg.LogLevel), cfg.AppEnv, os.Stdout)

	// --- Storage ---
	repos, db, err := openRepositories(cfg, log)
	if err != nil {
		log.Fatal("failed to open storage", map[string]interface{}{"error": err})
	}
	if db != nil {
		defer func() {
			if err := database.Close(db); err != nil {
				log.Warn("error closing database", map[string]interface{}{"error": err})
			}
		}()
	}

	// --- Sessions ---
	var sessionStorage fiber.Storage
	if cfg.RedisURL != "" {
		redisStorage, err := session.NewRedisStorage(cfg.RedisURL)
		if err != nil {
			log.Fatal("failed to connect to redis", map[string]interface{}{"error": err})
		}
		defer redisStorage.Close()
		sessionStorage = redisStorage
		log.Info("sessions stored in redis", nil)
	}

	// --- Events ---
	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.AMQPURL}, log)
		if err != nil {
			log.Fatal("failed to initialize RabbitMQ client", map[string]interface{}{"error": err})
		}
		defer mqClient.Close()
		events = mqClient

		if err := mqClient.ConsumeEvents(rabbitmq.ActivityLogger(log.WithFields(map[string]interface{}{"component": "activity"}))); err != nil {
			log.Warn("failed to start activity consumer", map[string]interface{}{"error": err})
		}
	} else {
		log.Info("RABBITMQ_URL not set, activity events are not published", nil)
	}

	app, err := server.NewApp(server.Deps{
		Config:         cfg,
		Log:            log,
		Repos:          repos,
		SessionStorage: sessionStorage,
		Events:         events,
		RequestLog:     true,
	})
	if err != nil {
		log.Fatal("failed to build application", map[string]interface{}{"error": err})
	}

	// --- Start HTTP Server ---
	go func() {
		log.Info("starting server", map[string]interface{}{"addr": cfg.Server.Port, "env": cfg.AppEnv})
		if err := app.Listen(cfg.Server.Port); err != nil {
			log.Fatal("server failed to start", map[string]interface{}{"error": err})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server", nil)

	if err := app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		log.Error("error during fiber shutdown", map[string]interface{}{"error": err})
	}
	log.Info("server gracefully stopped", nil)
}

func openRepositories(cfg *config.Config, log logger.Logger) (server.Repositories, *gorm.DB, error) {
	if cfg.Database.Driver == config.DriverMemory {
		log.Warn("using in-memory storage, data is lost on restart", nil)
		return server.MemoryRepositories(), nil, nil
	}

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return server.Repositories{}, nil, err
	}
	return server.Repositories{
		Users:     repositories.NewGORMUserRepository(db),
		Skills:    repositories.NewGORMSkillRepository(db),
		Comments:  repositories.NewGORMCommentRepository(db),
		Favorites: repositories.NewGORMFavoriteRepository(db),
	}, db, nil
}
