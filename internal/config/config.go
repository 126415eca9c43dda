package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultSessionSecret = "default-secret-key-change-me"
	defaultJWTSecret     = "default-jwt-secret-change-me"
)

var ErrInsecureSecret = errors.New("insecure secret")

type Config struct {
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPath     string

	RedisHost     string
	RedisPort     string
	SessionStore  string
	SessionSecret string

	JWTSecret        string
	JWTExpireMinutes int

	GinMode  string
	LogLevel string
	HTTPAddr string

	MediaRoot string
	MediaURL  string

	AuthRatePerMinute int

	OpenAIAPIKey string
}

// Load reads the configuration from the environment, optionally seeded by a
// .env file in the working directory.
func Load() *Config {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	return &Config{
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		DBPath:            v.GetString("DB_PATH"),
		RedisHost:         v.GetString("REDIS_HOST"),
		RedisPort:         v.GetString("REDIS_PORT"),
		SessionStore:      strings.ToLower(v.GetString("SESSION_STORE")),
		SessionSecret:     v.GetString("SESSION_SECRET"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTExpireMinutes:  v.GetInt("JWT_EXPIRE_MINUTES"),
		GinMode:           v.GetString("GIN_MODE"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		HTTPAddr:          v.GetString("HTTP_ADDR"),
		MediaRoot:         v.GetString("MEDIA_ROOT"),
		MediaURL:          v.GetString("MEDIA_URL"),
		AuthRatePerMinute: v.GetInt("AUTH_RATE_PER_MINUTE"),
		OpenAIAPIKey:      v.GetString("OPENAI_API_KEY"),
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("DB_DRIVER", "mysql")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "3306")
	v.SetDefault("DB_USER", "kanban")
	v.SetDefault("DB_PASSWORD", "kanbanpassword")
	v.SetDefault("DB_NAME", "kanban")
	v.SetDefault("DB_PATH", "./data/kanban.db")
	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("SESSION_STORE", "redis")
	v.SetDefault("SESSION_SECRET", defaultSessionSecret)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRE_MINUTES", 60*24*7)
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("MEDIA_ROOT", "./media")
	v.SetDefault("MEDIA_URL", "/media")
	v.SetDefault("AUTH_RATE_PER_MINUTE", 30)
	v.SetDefault("OPENAI_API_KEY", "")
}

// JWTExpiry returns the lifetime of issued bearer tokens.
func (c *Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpireMinutes) * time.Minute
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// Validate rejects settings that are only acceptable during development.
// In release mode the signing secrets must be set and must differ from the
// built-in defaults.
func (c *Config) Validate() error {
	if !c.IsProduction() {
		return nil
	}
	if c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("%w: JWT_SECRET must be set in release mode", ErrInsecureSecret)
	}
	if c.SessionSecret == "" || c.SessionSecret == defaultSessionSecret {
		return fmt.Errorf("%w: SESSION_SECRET must be set in release mode", ErrInsecureSecret)
	}
	return nil
}
