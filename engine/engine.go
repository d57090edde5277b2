package engine

import (
	"context"
	"time"
)

// Engine is the interface that all fetch engines must implement.
type Engine interface {
	// Name returns the engine identifier (e.g. "http", "rod", "rod-stealth").
	Name() string

	// Fetch retrieves the page content for the given request.
	Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error)
}

// FetchRequest contains everything an engine needs to fetch a page.
type FetchRequest struct {
	URL     string
	Headers map[string]string
	Timeout time.Duration

	// RenderJS is tri-state: nil lets the dispatcher race all engines,
	// true restricts the race to browser engines, false to the HTTP engine.
	RenderJS *bool

	// Stealth asks browser engines for anti-detection evasions.
	Stealth bool

	// Proxy is a per-request proxy URL. Engines that cannot honor it
	// must fail so the dispatcher escalates.
	Proxy string
}

// FetchResult is the output of a successful engine fetch.
type FetchResult struct {
	HTML       string
	Title      string
	StatusCode int

	// FinalURL is the URL after all redirects. Engines must fall back to
	// the request URL when they cannot determine it, so it is never empty.
	FinalURL string

	// Headers are the response headers, single-valued. Browser engines
	// may only populate a subset (e.g. Content-Type).
	Headers map[string]string

	EngineName string
}

// WantsBrowser reports whether the request explicitly demands JS rendering.
func (r *FetchRequest) WantsBrowser() bool {
	return r.RenderJS != nil && *r.RenderJS
}

// WantsHTTP reports whether the request explicitly forbids JS rendering.
func (r *FetchRequest) WantsHTTP() bool {
	return r.RenderJS != nil && !*r.RenderJS
}
