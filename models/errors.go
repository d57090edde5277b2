package models

import "fmt"

// Error codes used in API responses and internal error handling.
const (
	ErrCodeTimeout      = "SCRAPE_TIMEOUT"
	ErrCodeNavigation   = "NAVIGATION_FAILED"
	ErrCodeBrowserCrash = "BROWSER_CRASH"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"

	// Sitemap-related error codes for /api/v1/sitemap.
	ErrCodeSitemapFetch = "SITEMAP_FETCH_FAILED"
	ErrCodeSitemapParse = "SITEMAP_PARSE_FAILED"
)

// ErrorDetail is the structured error in API responses. URL carries the
// originating request URL so callers can tell which fetch failed.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	URL     string `json:"url,omitempty"`
}

// ScrapeError is the internal error type carrying an error code and the
// URL the failure relates to. It implements the error interface and
// supports error wrapping via Unwrap.
type ScrapeError struct {
	Code    string
	Message string
	URL     string
	Err     error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(code, message string, err error) *ScrapeError {
	return &ScrapeError{Code: code, Message: message, Err: err}
}

// WithURL attaches the originating URL and returns the error for chaining.
func (e *ScrapeError) WithURL(url string) *ScrapeError {
	e.URL = url
	return e
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Code, Message: e.Message, URL: e.URL}
}
