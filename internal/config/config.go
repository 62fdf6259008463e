package config

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DBDriver           string
	DatabaseURL        string
	CSRFKey            []byte
	SessionKey         []byte
	CookieDomain       string
	CookieSecure       bool
	RegisterRateWindow time.Duration
	LogLevel           slog.Level
}

// LoadConfig reads the storefront configuration from the environment. A .env
// file in the working directory is loaded first when present; variables
// already set in the environment win.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:         getEnv("PORT", "8585"),
		DBDriver:     getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL:  getEnv("DATABASE_URL", "./storefront.db"),
		CookieDomain: getEnv("COOKIE_DOMAIN", ""),
		CookieSecure: getEnv("COOKIE_SECURE", "false") == "true",
		LogLevel:     ParseLogLevel(getEnv("LOG_LEVEL", "info")),
	}

	cfg.CSRFKey = loadKey("CSRF_KEY")
	cfg.SessionKey = loadKey("SESSION_KEY")

	// Make sure port is valid
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		slog.Error("Invalid PORT environment variable. Falling back to default.", "PORT", os.Getenv("PORT"))
		cfg.Port = "8585"
	}

	window, err := time.ParseDuration(getEnv("REGISTER_RATE_WINDOW", "10s"))
	if err != nil || window < 0 {
		slog.Warn("Invalid REGISTER_RATE_WINDOW. Falling back to 10s.", "REGISTER_RATE_WINDOW", os.Getenv("REGISTER_RATE_WINDOW"))
		window = 10 * time.Second
	}
	cfg.RegisterRateWindow = window

	return cfg, nil
}

// loadKey decodes a base64 key of at least 32 bytes from env. Missing or short
// keys are replaced by a random one, which does not survive a restart.
func loadKey(env string) []byte {
	keyStr := os.Getenv(env)
	if keyStr == "" {
		slog.Warn(env + " environment variable not set. Generating a random key for development. PLEASE SET " + env + " IN PRODUCTION!")
		return generateRandomBytes(32)
	}
	decodedKey, err := base64.StdEncoding.DecodeString(keyStr)
	if err != nil || len(decodedKey) < 32 {
		slog.Warn(env + " is invalid or too short (min 32 bytes). Generating a random key for development.")
		return generateRandomBytes(32)
	}
	return decodedKey
}

// ParseLogLevel maps debug, info, warn and error to slog levels. Anything
// else is info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// generateRandomBytes generates a random byte slice of specified length
// Uses crypto/rand for secure random numbers.
func generateRandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		slog.Error("Failed to read random bytes", "error", err)
		// Only reached if the OS entropy source fails.
		fallbackKey := "fallback-insecure-key-" + strconv.FormatInt(time.Now().UnixNano(), 10)
		if len(fallbackKey) < n {
			paddedKey := make([]byte, n)
			copy(paddedKey, fallbackKey)
			return paddedKey
		}
		return []byte(fallbackKey)[:n]
	}
	return b
}
