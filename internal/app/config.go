package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Issuer       string // Optional: issuer claim for tokens (default: essivi-backoffice)
	SigningKey   string // Optional: base64 ed25519 seed; ephemeral key when empty
	DatabaseFile string // Optional: path to SQLite database file (default: ./backoffice.db)

	AccessTTL            time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL           time.Duration // Optional: refresh token lifetime (default: 168h)
	RequireVerifiedLogin bool          // Optional: refuse logins before email verification (default: false)
	RotateRefreshTokens  bool          // Optional: rotate refresh tokens on redemption (default: true)

	FrontendURL string // Optional: base URL for links in outgoing mail
	SMTPHost    string // Optional: mail relay host; log-only notifier when empty
	SMTPPort    int    // Optional: mail relay port (default: 587)
	SMTPUser    string // Optional: mail relay username
	SMTPPass    string // Optional: mail relay password
	SMTPFrom    string // Optional: From header for outgoing mail

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	// Local development keeps settings in a .env file; absence is fine.
	_ = godotenv.Load()

	return Config{
		Issuer:       getEnvOrDefault("ESSIVI_ISSUER", "essivi-backoffice"),
		SigningKey:   os.Getenv("ESSIVI_SIGNING_KEY"),
		DatabaseFile: getEnvOrDefault("ESSIVI_DATABASE_FILE", "backoffice.db"),

		AccessTTL:            getEnvDurationOrDefault("ESSIVI_ACCESS_TTL", 15*time.Minute),
		RefreshTTL:           getEnvDurationOrDefault("ESSIVI_REFRESH_TTL", 7*24*time.Hour),
		RequireVerifiedLogin: getEnvBoolOrDefault("ESSIVI_REQUIRE_VERIFIED_LOGIN", false),
		RotateRefreshTokens:  getEnvBoolOrDefault("ESSIVI_ROTATE_REFRESH_TOKENS", true),

		FrontendURL: getEnvOrDefault("ESSIVI_FRONTEND_URL", "http://localhost:3000"),
		SMTPHost:    os.Getenv("ESSIVI_SMTP_HOST"),
		SMTPPort:    getEnvIntOrDefault("ESSIVI_SMTP_PORT", 587),
		SMTPUser:    os.Getenv("ESSIVI_SMTP_USER"),
		SMTPPass:    os.Getenv("ESSIVI_SMTP_PASS"),
		SMTPFrom:    getEnvOrDefault("ESSIVI_SMTP_FROM", "no-reply@essivi.tg"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
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

	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
