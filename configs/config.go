package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every setting the API reads at start-up. It is loaded once
// and passed explicitly; nothing reads the environment after Load returns.
type Config struct {
	DatabaseURL      string
	DBDriver         string
	DBConnectRetries int

	JWTSecret string
	TokenTTL  time.Duration

	ServerPort       string
	CORSAllowOrigins string

	SeedSkills           bool
	SessionSweepSchedule string

	// AuthRateLimit is register/login requests per minute per client IP.
	// Zero turns throttling off.
	AuthRateLimit int

	LogLevel slog.Level
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{}
	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.DBDriver = strings.ToLower(getEnvString("DB_DRIVER", "postgres"))
	if cfg.DBDriver != "postgres" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	cfg.DBConnectRetries = getEnvInt("DB_CONNECT_RETRIES", 10)
	cfg.TokenTTL = getEnvDuration("TOKEN_TTL", 72*time.Hour)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CORSAllowOrigins = getEnvString("CORS_ALLOW_ORIGINS", "*")
	cfg.SeedSkills = getEnvBool("SEED_SKILLS", true)
	cfg.SessionSweepSchedule = os.Getenv("SESSION_SWEEP_SCHEDULE")
	cfg.LogLevel = getEnvLevel("LOG_LEVEL", slog.LevelInfo)
	cfg.AuthRateLimit = getEnvInt("AUTH_RATE_LIMIT", 20)
	if cfg.AuthRateLimit < 0 {
		cfg.AuthRateLimit = 0
	}

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func getEnvLevel(key string, defaultVal slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return defaultVal
	}
	return level
}
