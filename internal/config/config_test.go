package config_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"calendar-manager/internal/config"
)

var keys = []string{
	"DB_DRIVER", "DATABASE_URL", "WEB_PORT", "GRPC_PORT", "TIMEZONE",
	"JWT_SECRET", "AUTH_PASSWORD_HASH", "TOKEN_TTL", "RATE_LIMIT_RPS",
	"RATE_LIMIT_BURST", "LOG_LEVEL", "LOG_FORMAT", "CORS_ORIGINS",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	c, err := config.FromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DBDriver != "sqlite3" || c.DatabaseURL != "data/calendar.db" {
		t.Errorf("db: %s %s", c.DBDriver, c.DatabaseURL)
	}
	if c.WebPort != "8080" || c.GRPCPort != "" {
		t.Errorf("ports: %s %q", c.WebPort, c.GRPCPort)
	}
	if c.TokenTTL != 12*time.Hour || c.RateRPS != 5 || c.RateBurst != 10 {
		t.Errorf("limits: %v %v %v", c.TokenTTL, c.RateRPS, c.RateBurst)
	}
	if c.LogLevel != zerolog.InfoLevel || c.LogFormat != "console" {
		t.Errorf("log: %v %s", c.LogLevel, c.LogFormat)
	}
	if len(c.CORSOrigins) != 1 || c.CORSOrigins[0] != "*" {
		t.Errorf("cors: %v", c.CORSOrigins)
	}
	if c.AuthEnabled() {
		t.Error("auth should be off by default")
	}
}

func TestOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_DRIVER", "pgx")
	t.Setenv("DATABASE_URL", "postgres://localhost/cal")
	t.Setenv("GRPC_PORT", "50051")
	t.Setenv("TIMEZONE", "Asia/Seoul")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("AUTH_PASSWORD_HASH", "$2a$10$abc")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	c, err := config.FromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.DBDriver != "pgx" || c.GRPCPort != "50051" {
		t.Errorf("got %+v", c)
	}
	if c.Location.String() != "Asia/Seoul" {
		t.Errorf("location: %v", c.Location)
	}
	if !c.AuthEnabled() || c.TokenTTL != 30*time.Minute {
		t.Errorf("auth: %v %v", c.AuthEnabled(), c.TokenTTL)
	}
	if c.LogLevel != zerolog.DebugLevel || c.LogFormat != "json" {
		t.Errorf("log: %v %s", c.LogLevel, c.LogFormat)
	}
	if len(c.CORSOrigins) != 2 || c.CORSOrigins[1] != "http://b.test" {
		t.Errorf("cors: %v", c.CORSOrigins)
	}
}

func TestInvalid(t *testing.T) {
	tests := []struct {
		key, val string
	}{
		{"DB_DRIVER", "mysql"},
		{"TIMEZONE", "Mars/Olympus"},
		{"JWT_SECRET", "only-half"},
		{"TOKEN_TTL", "soon"},
		{"TOKEN_TTL", "-1h"},
		{"RATE_LIMIT_RPS", "fast"},
		{"RATE_LIMIT_BURST", "0"},
		{"LOG_LEVEL", "loud"},
		{"LOG_FORMAT", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.val, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			if _, err := config.FromEnv(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
