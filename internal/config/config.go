package config

import (
	"os"
)

// Search backend selection. Full-text uses the database's native text-search
// index and supports relevance ranking; substring is the portable fallback
// that matches case-insensitively across title, content, and tag names.
const (
	SearchBackendFullText  = "fulltext"
	SearchBackendSubstring = "substring"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string // JWKS endpoint of the identity provider
	CORSOrigins string
	TablePrefix string

	// Attachment storage
	UploadDir string

	// Search configuration
	SearchBackend  string // fulltext | substring
	SearchLanguage string // text-search configuration for stemming

	Debug bool
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix: getTablePrefix(env),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		SearchBackend:  getEnv("SEARCH_BACKEND", SearchBackendFullText),
		SearchLanguage: getEnv("SEARCH_LANGUAGE", "english"),

		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

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
