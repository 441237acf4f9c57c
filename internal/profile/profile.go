package profile

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the Mira routing service.
type Profile struct {
	// Mode can be "prod" or "dev"
	Mode string
	// Addr is the binding address for the server
	Addr string
	// Port is the binding port for the server
	Port int
	// TaxonomyPath overrides the embedded taxonomy document when set
	TaxonomyPath string
	// DSN points to where the intent log is stored (SQLite)
	DSN string

	// IntentLogEnabled turns on persistence of classification decisions
	IntentLogEnabled bool

	// Cache configuration
	CacheTTL             time.Duration
	CacheMaxSize         int
	CacheCleanupInterval time.Duration

	// Optional LLM fallback classifier
	LLMEnabled bool   // MIRA_LLM_ENABLED
	LLMAPIKey  string // MIRA_LLM_API_KEY
	LLMBaseURL string // MIRA_LLM_BASE_URL
	LLMModel   string // MIRA_LLM_MODEL

	// Version is the current version of the server
	Version string
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsLLMEnabled returns true if the LLM fallback is enabled and configured.
func (p *Profile) IsLLMEnabled() bool {
	return p.LLMEnabled && p.LLMAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from MIRA_* environment variables.
func (p *Profile) FromEnv() {
	getBoolEnv := func(key string) bool {
		return os.Getenv(key) == "true"
	}
	getIntEnv := func(key string, defaultValue int) int {
		if raw := os.Getenv(key); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil {
				return v
			}
		}
		return defaultValue
	}
	getDurationEnv := func(key string, defaultValue time.Duration) time.Duration {
		if raw := os.Getenv(key); raw != "" {
			if v, err := time.ParseDuration(raw); err == nil {
				return v
			}
		}
		return defaultValue
	}

	p.Mode = getEnvOrDefault("MIRA_MODE", p.Mode)
	p.Addr = getEnvOrDefault("MIRA_ADDR", p.Addr)
	p.Port = getIntEnv("MIRA_PORT", p.Port)
	p.TaxonomyPath = getEnvOrDefault("MIRA_TAXONOMY_PATH", p.TaxonomyPath)
	p.DSN = getEnvOrDefault("MIRA_DSN", p.DSN)

	p.IntentLogEnabled = getBoolEnv("MIRA_INTENT_LOG_ENABLED")

	p.CacheTTL = getDurationEnv("MIRA_CACHE_TTL", p.CacheTTL)
	p.CacheMaxSize = getIntEnv("MIRA_CACHE_MAX_SIZE", p.CacheMaxSize)
	p.CacheCleanupInterval = getDurationEnv("MIRA_CACHE_CLEANUP_INTERVAL", p.CacheCleanupInterval)

	p.LLMEnabled = getBoolEnv("MIRA_LLM_ENABLED")
	p.LLMAPIKey = getEnvOrDefault("MIRA_LLM_API_KEY", p.LLMAPIKey)
	p.LLMBaseURL = getEnvOrDefault("MIRA_LLM_BASE_URL", p.LLMBaseURL)
	p.LLMModel = getEnvOrDefault("MIRA_LLM_MODEL", p.LLMModel)
}

// Validate normalizes the profile and rejects unusable values.
func (p *Profile) Validate() error {
	if p.Mode != "prod" && p.Mode != "dev" {
		p.Mode = "dev"
	}
	if p.Port < 0 || p.Port > 65535 {
		return errors.Errorf("invalid port %d", p.Port)
	}
	if p.Port == 0 {
		p.Port = 8091
	}
	if p.CacheMaxSize < 0 {
		return errors.Errorf("invalid cache max size %d", p.CacheMaxSize)
	}
	if p.IntentLogEnabled && p.DSN == "" {
		return errors.New("intent logging is enabled but no DSN is configured")
	}
	return nil
}
