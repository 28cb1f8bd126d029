package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// GetEnv returns the value of an environment variable or a default value if not set
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetBoolEnv returns the boolean value of an environment variable or a default value if not set
func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetDurationEnv parses a Go duration string (e.g. "90s", "2m") or returns the default
func GetDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}

// GetHost returns the interface the API server binds to
func GetHost() string {
	return GetEnv("HOST", "0.0.0.0")
}

// GetAPIPrefix returns the normalized API prefix ("" or "/something")
func GetAPIPrefix() string {
	prefix := strings.TrimSpace(GetEnv("API_PREFIX", ""))
	if prefix == "" || prefix == "/" {
		return ""
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return strings.TrimSuffix(prefix, "/")
}

// SEO URL refresh settings
const (
	DefaultRefreshTimeout = 2 * time.Minute
	DefaultLockTTL        = 5 * time.Minute
)

// SeoURLConfig holds the settings of the SEO URL refresh entry points
type SeoURLConfig struct {
	RefreshOnStartup bool
	RefreshSchedule  string
	RefreshTimeout   time.Duration
	LockTTL          time.Duration
}

// GetSeoURLConfig reads the SEO URL refresh settings from the environment
func GetSeoURLConfig() SeoURLConfig {
	return SeoURLConfig{
		RefreshOnStartup: GetBoolEnv("SEO_URL_REFRESH_ON_STARTUP", true),
		RefreshSchedule:  GetEnv("SEO_URL_REFRESH_SCHEDULE", ""),
		RefreshTimeout:   GetDurationEnv("SEO_URL_REFRESH_TIMEOUT", DefaultRefreshTimeout),
		LockTTL:          GetDurationEnv("SEO_URL_LOCK_TTL", DefaultLockTTL),
	}
}
