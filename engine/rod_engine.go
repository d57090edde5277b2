package engine

import (
	"context"
	"fmt"
)

// BrowserFetchFunc is the callback type that wraps the rod-based scraper.
// It is injected from main.go to avoid a circular import (engine/ never
// imports scraper/).
type BrowserFetchFunc func(ctx context.Context, req *FetchRequest) (*FetchResult, error)

// RodEngine is a browser-based engine that delegates to the rod scraper
// via a callback function. The forceStealth flag distinguishes the plain
// browser tier from the stealth tier.
type RodEngine struct {
	fetchFunc    BrowserFetchFunc
	forceStealth bool
	name         string
}

// NewRodEngine creates a RodEngine.
//   - fetchFunc: callback that invokes the rod-based scraper (injected from main.go).
//   - forceStealth: when true, the engine always sets Stealth=true on requests.
func NewRodEngine(fetchFunc BrowserFetchFunc, forceStealth bool) *RodEngine {
	name := "rod"
	if forceStealth {
		name = "rod-stealth"
	}
	return &RodEngine{
		fetchFunc:    fetchFunc,
		forceStealth: forceStealth,
		name:         name,
	}
}

func (e *RodEngine) Name() string { return e.name }

func (e *RodEngine) Fetch(ctx context.Context, req *FetchRequest) (*FetchResult, error) {
	if e.fetchFunc == nil {
		return nil, fmt.Errorf("%s: fetchFunc not configured", e.name)
	}

	// Clone the request so we don't mutate the caller's copy.
	r := *req
	if e.forceStealth {
		r.Stealth = true
	}

	result, err := e.fetchFunc(ctx, &r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", e.name, err)
	}

	result.EngineName = e.name
	return result, nil
}
