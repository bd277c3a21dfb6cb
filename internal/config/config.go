package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"calendar-manager/internal/store"
)

type Config struct {
	DBDriver     string
	DatabaseURL  string
	WebPort      string
	GRPCPort     string // empty disables the gRPC listener
	Location     *time.Location
	JWTSecret    string
	PasswordHash string
	TokenTTL     time.Duration
	RateRPS      float64
	RateBurst    int
	LogLevel     zerolog.Level
	LogFormat    string
	CORSOrigins  []string
}

// Load reads the given env files (".env" when none are named) if present,
// then the environment. Variables already set win over file values.
func Load(files ...string) (*Config, error) {
	_ = godotenv.Load(files...)
	return FromEnv()
}

// FromEnv builds a Config from the environment alone.
func FromEnv() (*Config, error) {
	c := &Config{
		DBDriver:     env("DB_DRIVER", store.DriverSQLite),
		DatabaseURL:  env("DATABASE_URL", "data/calendar.db"),
		WebPort:      env("WEB_PORT", "8080"),
		GRPCPort:     os.Getenv("GRPC_PORT"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		PasswordHash: os.Getenv("AUTH_PASSWORD_HASH"),
		LogFormat:    env("LOG_FORMAT", "console"),
	}

	if c.DBDriver != store.DriverSQLite && c.DBDriver != store.DriverPostgres {
		return nil, fmt.Errorf("DB_DRIVER: unsupported driver %q (want %s or %s)", c.DBDriver, store.DriverSQLite, store.DriverPostgres)
	}

	loc, err := time.LoadLocation(env("TIMEZONE", "Local"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}
	c.Location = loc

	if (c.JWTSecret == "") != (c.PasswordHash == "") {
		return nil, fmt.Errorf("JWT_SECRET and AUTH_PASSWORD_HASH must be set together")
	}

	if c.TokenTTL, err = time.ParseDuration(env("TOKEN_TTL", "12h")); err != nil {
		return nil, fmt.Errorf("TOKEN_TTL: %w", err)
	}
	if c.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL: must be positive")
	}

	if c.RateRPS, err = strconv.ParseFloat(env("RATE_LIMIT_RPS", "5"), 64); err != nil || c.RateRPS <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPS: want a positive number")
	}
	if c.RateBurst, err = strconv.Atoi(env("RATE_LIMIT_BURST", "10")); err != nil || c.RateBurst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST: want a positive integer")
	}

	if c.LogLevel, err = zerolog.ParseLevel(strings.ToLower(env("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT: want console or json, got %q", c.LogFormat)
	}

	for _, o := range strings.Split(env("CORS_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			c.CORSOrigins = append(c.CORSOrigins, o)
		}
	}

	return c, nil
}

// AuthEnabled reports whether login is required.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != "" && c.PasswordHash != ""
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
