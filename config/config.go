package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Sitemap   SitemapConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
	Engine    EngineConfig
}

// EngineConfig controls the multi-engine fetch dispatcher.
type EngineConfig struct {
	// EscalationDelays is the staged start delay for each engine tier
	// (http, rod, rod-stealth).
	EscalationDelays []time.Duration // default: [0s, 2s, 5s]

	// DomainMemoryTTL is how long a winning engine is remembered per domain.
	DomainMemoryTTL time.Duration // default: 24h
}

// CacheConfig controls the scrape response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 1000
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8002
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 10

	// DefaultProxy is the default proxy URL for all requests.
	DefaultProxy string

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string
}

// ScraperConfig controls fetch behavior.
type ScraperConfig struct {
	// MaxTimeout is the maximum allowed timeout from the client.
	MaxTimeout time.Duration // default: 120s

	// BlockedResourceTypes lists resource types the browser engine blocks.
	// default: ["Image", "Stylesheet", "Font", "Media"]
	BlockedResourceTypes []string
}

// SitemapConfig controls sitemap fetching for /api/v1/sitemap.
type SitemapConfig struct {
	// FetchTimeout is the per-document timeout for sitemap and robots.txt
	// fetches.
	FetchTimeout time.Duration // default: 10s

	// MaxBodyBytes caps a single sitemap document's size.
	MaxBodyBytes int64 // default: 5 MiB
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SCRAPER_HOST", "0.0.0.0"),
			Port: envIntOr("SCRAPER_PORT", 8002),
			Mode: envOr("SCRAPER_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("SCRAPER_HEADLESS", true),
			MaxPages:     envIntOr("SCRAPER_MAX_PAGES", 10),
			DefaultProxy: os.Getenv("SCRAPER_PROXY"),
			NoSandbox:    envBoolOr("SCRAPER_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("SCRAPER_BROWSER_BIN"),
		},
		Scraper: ScraperConfig{
			MaxTimeout: envDurationOr("SCRAPER_MAX_TIMEOUT", 120*time.Second),
			BlockedResourceTypes: envSliceOr("SCRAPER_BLOCKED_RESOURCES", []string{
				"Image", "Stylesheet", "Font", "Media",
			}),
		},
		Sitemap: SitemapConfig{
			FetchTimeout: envDurationOr("SCRAPER_SITEMAP_TIMEOUT", 10*time.Second),
			MaxBodyBytes: int64(envIntOr("SCRAPER_SITEMAP_MAX_BYTES", 5<<20)),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SCRAPER_AUTH_ENABLED", false),
			APIKeys: envSliceOr("SCRAPER_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SCRAPER_RATE_RPS", 5.0),
			Burst:             envIntOr("SCRAPER_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SCRAPER_CACHE_MAX_ENTRIES", 1000),
		},
		Log: LogConfig{
			Level:  envOr("SCRAPER_LOG_LEVEL", "info"),
			Format: envOr("SCRAPER_LOG_FORMAT", "json"),
		},
		Engine: EngineConfig{
			EscalationDelays: envDurationSliceOr("SCRAPER_ESCALATION_DELAYS", []time.Duration{0, 2 * time.Second, 5 * time.Second}),
			DomainMemoryTTL:  envDurationOr("SCRAPER_DOMAIN_MEMORY_TTL", 24*time.Hour),
		},
	}
}

func envDurationSliceOr(key string, fallback []time.Duration) []time.Duration {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]time.Duration, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				if d, err := time.ParseDuration(trimmed); err == nil {
					result = append(result, d)
				}
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
