package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv   string
	LogLevel string
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	RedisURL string
	AMQPURL  string
}

type ServerConfig struct {
	Port            string
	StaticDir       string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

type SessionConfig struct {
	CookieName   string
	Expiration   time.Duration
	CookieSecret string
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "file:skillswap.db?cache=shared")
	v.SetDefault("DB_MAX_OPEN_CONNS", 25)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SESSION_EXPIRATION", "24h")
	v.SetDefault("SESSION_COOKIE", "skillswap_session")
	v.SetDefault("COOKIE_SECRET", "")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("STATIC_DIR", "./public")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
}

// Load reads .env when present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config

	cfg.AppEnv = v.GetString("APP_ENV")
	cfg.LogLevel = strings.ToLower(v.GetString("LOG_LEVEL"))

	cfg.Server.Port = v.GetString("APP_PORT")
	cfg.Server.StaticDir = v.GetString("STATIC_DIR")
	cfg.Server.ShutdownTimeout = v.GetDuration("SHUTDOWN_TIMEOUT")

	cfg.Database.Driver = strings.ToLower(v.GetString("DB_DRIVER"))
	cfg.Database.DSN = v.GetString("DATABASE_DSN")
	cfg.Database.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")

	cfg.Session.CookieName = v.GetString("SESSION_COOKIE")
	cfg.Session.Expiration = v.GetDuration("SESSION_EXPIRATION")
	cfg.Session.CookieSecret = v.GetString("COOKIE_SECRET")

	cfg.RedisURL = v.GetString("REDIS_URL")
	cfg.AMQPURL = v.GetString("RABBITMQ_URL")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Session.Expiration <= 0 {
		return fmt.Errorf("SESSION_EXPIRATION must be positive")
	}
	if c.Database.MaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}
