// Package config builds service configuration from environment variables so
// main stays lean.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config captures the service-level configuration surface. Privacy policy
// (K, MAX, sensitive columns) is loaded once at startup and never changes
// for the lifetime of the process.
type Config struct {
	Addr             string
	DataURL          string
	KAnonymity       int
	MaxResults       int
	SensitiveColumns []string
	SkipAutofit      bool
	RateLimit        float64
	LogLevel         slog.Level
}

// FromEnv builds a Config from ANONYMIZER_* environment variables,
// falling back to defaults suitable for local development.
func FromEnv() Config {
	return Config{
		Addr:             envString("ANONYMIZER_ADDR", ":8080"),
		DataURL:          envString("ANONYMIZER_DATA_URL", "./data/people.csv"),
		KAnonymity:       envInt("ANONYMIZER_K", 10),
		MaxResults:       envInt("ANONYMIZER_MAX_RESULTS", 4000),
		SensitiveColumns: envList("ANONYMIZER_SENSITIVE_COLUMNS", []string{"name", "national_id", "phone", "address"}),
		SkipAutofit:      os.Getenv("ANONYMIZER_SKIP_AUTOFIT") == "true",
		RateLimit:        envFloat("ANONYMIZER_RATE_LIMIT", 0),
		LogLevel:         envLevel("ANONYMIZER_LOG_LEVEL", slog.LevelInfo),
	}
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func envLevel(key string, fallback slog.Level) slog.Level {
	switch strings.ToLower(os.Getenv(key)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}
