package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Server
	Port        string
	CORSOrigins string
	AppEnv      string
	LogLevel    slog.Level

	// Sentry
	SentryDSN string

	// Assistant
	AssistantReplyDelay time.Duration
	AssistantScriptPath string

	// SOS
	SOSScenario      string
	DefaultLatitude  float64
	DefaultLongitude float64
	DefaultAddress   string

	// Dashboard
	NearbyRadiusKm float64

	// Sessions
	SessionIdleTTL time.Duration

	// Incident archive
	ArchiveDSN       string
	ArchiveRetention time.Duration
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		AppEnv:      getEnv("APP_ENV", "development"),
		LogLevel:    parseLevel(getEnv("LOG_LEVEL", "info")),

		SentryDSN: getEnv("SENTRY_DSN", ""),

		AssistantReplyDelay: parseDuration(getEnv("ASSISTANT_REPLY_DELAY", "1500ms"), 1500*time.Millisecond),
		AssistantScriptPath: getEnv("ASSISTANT_SCRIPT_PATH", ""),

		SOSScenario:      getEnv("SOS_SCENARIO", "Emergency Mode"),
		DefaultLatitude:  parseFloat(getEnv("DEFAULT_LATITUDE", "40.7128"), 40.7128),
		DefaultLongitude: parseFloat(getEnv("DEFAULT_LONGITUDE", "-74.0060"), -74.0060),
		DefaultAddress:   getEnv("DEFAULT_ADDRESS", "New York, NY"),

		NearbyRadiusKm: parseFloat(getEnv("NEARBY_RADIUS_KM", "2"), 2),

		SessionIdleTTL: parseDuration(getEnv("SESSION_IDLE_TTL", "30m"), 30*time.Minute),

		ArchiveDSN:       getEnv("ARCHIVE_DSN", ""),
		ArchiveRetention: parseDuration(getEnv("ARCHIVE_RETENTION", "720h"), 30*24*time.Hour),
	}
}

// IsProduction reports whether APP_ENV names a production deployment.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
