package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppPort      string
	SQLiteDSN    string
	LogLevel     slog.Level
	CORSOrigins  []string
	RecordCount  int
	LoginLatency time.Duration

	AdminIdentifier string
	AdminSecret     string
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getNonNegInt(key string, def int) int {
	if n := getInt(key, def); n >= 0 {
		return n
	}
	return def
}

func getList(key, def string) []string {
	var out []string
	for _, s := range strings.Split(getenv(key, def), ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getLevel(key string, def slog.Level) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(os.Getenv(key))); err != nil {
		return def
	}
	return lvl
}

func Load() Config {
	return Config{
		AppPort:      getenv("APP_PORT", "8080"),
		SQLiteDSN:    getenv("SQLITE_DSN", "file:aegis?mode=memory&cache=shared"),
		LogLevel:     getLevel("LOG_LEVEL", slog.LevelInfo),
		CORSOrigins:  getList("CORS_ORIGINS", "http://localhost:8081"),
		RecordCount:  getNonNegInt("RECORD_COUNT", 30),
		LoginLatency: time.Duration(getNonNegInt("LOGIN_LATENCY_MS", 0)) * time.Millisecond,

		AdminIdentifier: getenv("ADMIN_IDENTIFIER", "admin"),
		AdminSecret:     getenv("ADMIN_SECRET", "Admin12345678@"),
	}
}
