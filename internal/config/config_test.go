package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"APP_PORT", "SQLITE_DSN", "LOG_LEVEL", "CORS_ORIGINS", "RECORD_COUNT", "LOGIN_LATENCY_MS", "ADMIN_IDENTIFIER", "ADMIN_SECRET"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, []string{"http://localhost:8081"}, cfg.CORSOrigins)
	assert.Equal(t, 30, cfg.RecordCount)
	assert.Zero(t, cfg.LoginLatency)
	assert.Equal(t, "admin", cfg.AdminIdentifier)
	assert.Equal(t, "Admin12345678@", cfg.AdminSecret)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("RECORD_COUNT", "45")
	t.Setenv("LOGIN_LATENCY_MS", "1000")

	cfg := Load()
	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
	assert.Equal(t, 45, cfg.RecordCount)
	assert.Equal(t, time.Second, cfg.LoginLatency)
}

func TestLoadBadNumbersFallBack(t *testing.T) {
	t.Setenv("RECORD_COUNT", "many")
	t.Setenv("LOG_LEVEL", "loud")

	cfg := Load()
	assert.Equal(t, 30, cfg.RecordCount)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoadNegativeFallsBack(t *testing.T) {
	t.Setenv("RECORD_COUNT", "-1")
	t.Setenv("LOGIN_LATENCY_MS", "-500")

	cfg := Load()
	assert.Equal(t, 30, cfg.RecordCount)
	assert.Zero(t, cfg.LoginLatency)
}
