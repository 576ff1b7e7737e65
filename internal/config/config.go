package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	// StoragePostgres persists through the pgx pool.
	StoragePostgres = "postgres"
	// StorageMemory keeps everything in process memory; for local development only.
	StorageMemory = "memory"

	defaultTTL          = 60 * time.Minute
	minJWTSecretLength  = 32
	defaultJWTIssuer    = "mindcare-backend"
	defaultPort         = "8080"
	defaultLogLevel     = "info"
	defaultCookieSecure = true
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port         string
	Storage      string
	DatabaseURL  string
	JWTSecret    string
	JWTIssuer    string
	JWTTTL       time.Duration
	CookieSecure bool
	BcryptCost   int
	CORSOrigins  []string
	LogLevel     string
	LogDir       string
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:         fallback(os.Getenv("PORT"), defaultPort),
		Storage:      strings.ToLower(fallback(os.Getenv("STORAGE"), StoragePostgres)),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:    strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:    fallback(os.Getenv("JWT_ISSUER"), defaultJWTIssuer),
		JWTTTL:       parseTTL(os.Getenv("JWT_TTL_MINUTES")),
		CookieSecure: parseBool(os.Getenv("COOKIE_SECURE"), defaultCookieSecure),
		BcryptCost:   parseCost(os.Getenv("BCRYPT_COST")),
		CORSOrigins:  parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
		LogLevel:     fallback(os.Getenv("LOG_LEVEL"), defaultLogLevel),
		LogDir:       strings.TrimSpace(os.Getenv("LOG_DIR")),
	}

	switch cfg.Storage {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, errors.New("DATABASE_URL is required")
		}
	case StorageMemory:
	default:
		return Config{}, fmt.Errorf("unsupported STORAGE %q", cfg.Storage)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if len(cfg.JWTSecret) < minJWTSecretLength {
		return Config{}, fmt.Errorf("JWT_SECRET must be at least %d bytes", minJWTSecretLength)
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseTTL(raw string) time.Duration {
	minutes, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || minutes <= 0 {
		return defaultTTL
	}
	return time.Duration(minutes) * time.Minute
}

func parseBool(raw string, def bool) bool {
	value, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return value
}

func parseCost(raw string) int {
	cost, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return bcrypt.DefaultCost
	}
	if cost < bcrypt.MinCost {
		return bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		return bcrypt.MaxCost
	}
	return cost
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
