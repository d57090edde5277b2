package models

import "github.com/dngreen04-01/honda-price-update/redirect"

// ScrapeResponse is the response for POST /api/v1/scrape.
type ScrapeResponse struct {
	// Success indicates whether the fetch completed without errors.
	Success bool `json:"success"`

	// HTML is the raw fetched page body.
	HTML string `json:"html,omitempty"`

	// StatusCode is the HTTP status code from the fetched page.
	StatusCode int `json:"status_code,omitempty"`

	// Headers are the response headers from the fetch, when the engine
	// captured them.
	Headers map[string]string `json:"headers,omitempty"`

	// FinalURL is the URL after following all redirects.
	FinalURL string `json:"final_url,omitempty"`

	// RedirectDetected is true when the final URL differs from the
	// requested URL after normalization.
	RedirectDetected bool `json:"redirect_detected"`

	// RedirectType classifies the redirect:
	// "none", "domain", "category", "product" or "unknown".
	RedirectType redirect.Type `json:"redirect_type"`

	// OriginalURL is the requested URL. Present only when a redirect
	// was detected.
	OriginalURL string `json:"original_url,omitempty"`

	// EngineUsed indicates which fetch engine produced the result
	// (e.g. "http", "rod", "rod-stealth").
	EngineUsed string `json:"engine_used,omitempty"`

	// CacheStatus indicates whether the response was served from cache.
	// Values: "hit", "miss", or empty (caching not requested).
	CacheStatus string `json:"cache_status,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// SitemapResponse is the response for POST /api/v1/sitemap.
type SitemapResponse struct {
	// Success indicates whether URL discovery completed.
	Success bool `json:"success"`

	// URLs are the discovered page URLs in document order.
	URLs []string `json:"urls"`

	// Total is len(URLs), provided for convenience.
	Total int `json:"total"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// FetchMs is the time spent fetching the page.
	FetchMs int64 `json:"fetch_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}
