package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Port        string
	Environment string
	// DatabaseURL selects PostgreSQL storage; empty keeps courses in memory.
	DatabaseURL string
	// AuthJWKSURL is the auth provider's key set. Empty disables token
	// checks, which is only allowed in dev.
	AuthJWKSURL string
	CORSOrigins string
	TablePrefix string
	// Logging
	LogDir      string
	LogMaxFiles int
	// Edit sessions kept in memory
	SessionLimit int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:         getEnv("PORT", "8080"),
		Environment:  env,
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		AuthJWKSURL:  getEnv("AUTH_JWKS_URL", ""),
		CORSOrigins:  getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:  getTablePrefix(env),
		LogDir:       getEnv("LOG_DIR", ""),
		LogMaxFiles:  getEnvInt("LOG_MAX_FILES", 10),
		SessionLimit: getEnvInt("SESSION_LIMIT", DefaultSessionLimit),
	}
}

// IsDev reports whether the server runs in the dev environment
func (c *Config) IsDev() bool {
	return c.Environment == "dev"
}

// AllowedOrigins splits CORS_ORIGINS into its entries
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	// Auto-generate based on environment
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
