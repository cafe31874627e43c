package app

import (
	"os"
	"strconv"
	"time"

	"github.com/jotterhq/jotter/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim stamped into every token (default: jotter)

	AccessSecret  string        // HS256 secret for access tokens (empty: ephemeral secret generated at boot)
	RefreshSecret string        // HS256 secret for refresh tokens (empty: ephemeral secret generated at boot)
	AccessTTL     time.Duration // Access token lifetime (default: 1h)
	RefreshTTL    time.Duration // Refresh token lifetime (default: 168h)

	DatabaseFile string // Path to SQLite database file (default: ./jotter.db)
	PepperFile   string // Path to password pepper file, empty disables peppering (default: ./pepper)

	CookieSecure bool   // Secure attribute on the refresh cookie (default: true outside dev)
	CORSOrigin   string // Browser origin allowed to call the API with credentials (empty: CORS disabled)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)
	Port      int    // HTTP server port (default: 8080)

	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Dead session purge interval (default: 1h)
}

func LoadConfig() Config {
	env := getEnvOrDefault("JOTTER_ENV", "dev")

	return Config{
		Issuer: getEnvOrDefault("JOTTER_ISSUER", "jotter"),

		AccessSecret:  os.Getenv("JOTTER_ACCESS_SECRET"),
		RefreshSecret: os.Getenv("JOTTER_REFRESH_SECRET"),
		AccessTTL:     getEnvDurationOrDefault("JOTTER_ACCESS_TOKEN_TTL", jwtx.DefaultAccessTokenTTL),
		RefreshTTL:    getEnvDurationOrDefault("JOTTER_REFRESH_TOKEN_TTL", jwtx.DefaultRefreshTokenTTL),

		DatabaseFile: getEnvOrDefault("JOTTER_DATABASE_FILE", "jotter.db"),
		PepperFile:   getEnvOrDefault("JOTTER_PEPPER_FILE", "pepper"),

		CookieSecure: getEnvBoolOrDefault("JOTTER_COOKIE_SECURE", env != "dev"),
		CORSOrigin:   os.Getenv("JOTTER_CORS_ORIGIN"),

		Env:       env,
		LogLevel:  getEnvOrDefault("JOTTER_LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("JOTTER_LOG_FORMAT", "json"),
		Port:      getEnvIntOrDefault("JOTTER_PORT", 8080),

		ShutdownGracePeriod:  getEnvDurationOrDefault("JOTTER_SHUTDOWN_GRACE", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("JOTTER_HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

// getEnvDurationOrDefault reads a duration from the environment. It accepts
// Go duration strings ("45m", "2h") and bare integers, which are treated as
// minutes.
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
