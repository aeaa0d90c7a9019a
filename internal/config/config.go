package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Environment
	Env string // "development", "production", etc.

	// Server
	ServerAddr string
	BaseURL    string

	// Backend is the remote ZapLink API that stores zaps and issues short links.
	BackendURL     string
	BackendTimeout time.Duration

	// Session
	SessionSecret        string // Used for signing cookies (min 32 chars)
	SessionStore         string // "memory", "redis" or "postgres"
	SessionSweepInterval time.Duration

	// Session storage backends
	RedisURL    string
	DatabaseURL string

	// CORS
	CORSOrigins string // Comma-separated allowed origins, e.g. "https://example.com,https://app.example.com"

	// Upload wizard
	ExclusiveProtection bool // Password protection and self-destruct clear each other when toggled
	TextMaxLength       int
	MaxUploadMB         int

	// Content type overrides (YAML)
	ContentTypesFile string

	// Telemetry
	OTelEnabled  bool
	OTLPEndpoint string

	// Templates
	ViewsDir string // env: VIEWS_DIR, default: "./views"

	// Site Branding
	SiteTitle   string // env: SITE_TITLE, default: "ZapLink"
	SiteTagline string // env: SITE_TAGLINE
	SiteFooter  string // env: SITE_FOOTER
	SiteLogoURL string // env: SITE_LOGO_URL, default: "" (no logo, text only)
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is loaded first if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:                  getEnv("ENV", "development"),
		ServerAddr:           getEnv("SERVER_ADDR", ":3000"),
		BaseURL:              getEnv("BASE_URL", "http://localhost:3000"),
		BackendURL:           getEnv("BACKEND_URL", "http://localhost:5000"),
		BackendTimeout:       getDuration("BACKEND_TIMEOUT", 30*time.Second),
		SessionSecret:        getEnv("SESSION_SECRET", "change-me-in-production-min-32-chars"),
		SessionStore:         getEnv("SESSION_STORE", "memory"),
		SessionSweepInterval: getDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),
		RedisURL:             getEnv("REDIS_URL", "redis://localhost:6379/0"),
		DatabaseURL:          getEnv("DATABASE_URL", "postgres://localhost:5432/zaplink?sslmode=disable"),
		CORSOrigins:          getEnv("CORS_ORIGINS", ""),
		ExclusiveProtection:  getEnv("EXCLUSIVE_PROTECTION", "") != "",
		TextMaxLength:        getInt("TEXT_MAX_LENGTH", 10000),
		MaxUploadMB:          getInt("MAX_UPLOAD_MB", 50),
		ContentTypesFile:     getEnv("CONTENT_TYPES_FILE", "content_types.yaml"),
		OTelEnabled:          getEnv("OTEL_ENABLED", "") == "true",
		OTLPEndpoint:         getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),

		ViewsDir:             getEnv("VIEWS_DIR", "./views"),

		SiteTitle:   getEnv("SITE_TITLE", "ZapLink"),
		SiteTagline: getEnv("SITE_TAGLINE", "Share files with QR magic"),
		SiteFooter:  getEnv("SITE_FOOTER", "Powered by ZapLink"),
		SiteLogoURL: getEnv("SITE_LOGO_URL", ""),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func getDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// IsDev returns true if the environment is set to development.
func (c *Config) IsDev() bool {
	return c.Env == "development" || c.Env == "dev"
}

// MaxUploadBytes returns the request body ceiling for uploads.
func (c *Config) MaxUploadBytes() int {
	return c.MaxUploadMB * 1024 * 1024
}
