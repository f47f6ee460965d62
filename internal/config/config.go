// Package config loads ejobs settings from the environment.
//
// Values may come from a .env file (loaded by the entry points through
// godotenv) or from the process environment. Every setting has a default that
// is good enough for a local SQLite run.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Database types
const (
	PostgresDbType = "postgres"
	SqliteDbType   = "sqlite"
)

const devJWTSecret = "dev-secret-key-change-in-production"

// DatabaseSettings selects the relational store.
type DatabaseSettings struct {
	Type string `validate:"required,oneof=postgres sqlite"`
	DSN  string
}

// Config is the full application configuration shared by the API server and
// the admin CLI.
type Config struct {
	Port        string `validate:"required,numeric"`
	Database    DatabaseSettings
	JWTSecret   string        `validate:"required,min=16"`
	TokenTTL    time.Duration `validate:"required"`
	UploadDir   string        `validate:"required"`
	PageSize    int           `validate:"min=1,max=100"`
	Logger      LoggerSettings
	RedisURL    string
	StatsTTL    time.Duration
	CORSOrigins []string
	GeminiKey   string
}

// FromEnv builds a Config from environment variables and validates it.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port: envOr("EJOBS_PORT", "8080"),
		Database: DatabaseSettings{
			Type: envOr("EJOBS_DB_TYPE", SqliteDbType),
			DSN:  os.Getenv("EJOBS_DB_DSN"),
		},
		JWTSecret: os.Getenv("EJOBS_JWT_SECRET"),
		UploadDir: envOr("EJOBS_UPLOAD_DIR", "./media"),
		Logger: LoggerSettings{
			LogLevel: envOr("EJOBS_LOG_LEVEL", LogLevelInfo),
			LogType:  envOr("EJOBS_LOG_TYPE", LogTypeConsole),
			FilePath: os.Getenv("EJOBS_LOG_FILE"),
		},
		RedisURL:  os.Getenv("EJOBS_REDIS_URL"),
		GeminiKey: os.Getenv("GEMINI_API_KEY"),
	}

	var err error
	if cfg.TokenTTL, err = envDuration("EJOBS_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.StatsTTL, err = envDuration("EJOBS_STATS_TTL", time.Minute); err != nil {
		return nil, err
	}
	if cfg.PageSize, err = envInt("EJOBS_PAGE_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.Logger.MaxSize, err = envInt("EJOBS_LOG_MAX_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.Logger.MaxBackups, err = envInt("EJOBS_LOG_MAX_BACKUPS", 3); err != nil {
		return nil, err
	}
	if cfg.Logger.MaxAge, err = envInt("EJOBS_LOG_MAX_AGE", 28); err != nil {
		return nil, err
	}

	if origins := os.Getenv("EJOBS_CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if cfg.Database.Type == SqliteDbType && cfg.Database.DSN == "" {
		cfg.Database.DSN = "ejobs.sqlite"
	}
	if cfg.JWTSecret == "" {
		if cfg.Database.Type == PostgresDbType {
			return nil, errors.New("EJOBS_JWT_SECRET must be set when running against postgres")
		}
		cfg.JWTSecret = devJWTSecret
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all fields in Config are valid.
func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var messages []string
			for _, fieldErr := range validationErrors {
				messages = append(messages, fmt.Sprintf("Field: %s, Tag: %s", fieldErr.Namespace(), fieldErr.Tag()))
			}
			return fmt.Errorf("invalid configuration: %v", messages)
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Database.Type == PostgresDbType && c.Database.DSN == "" {
		return errors.New("invalid configuration: EJOBS_DB_DSN is required for postgres")
	}
	return c.Logger.Validate()
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
