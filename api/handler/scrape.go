package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dngreen04-01/honda-price-update/cache"
	"github.com/dngreen04-01/honda-price-update/engine"
	"github.com/dngreen04-01/honda-price-update/models"
	"github.com/dngreen04-01/honda-price-update/redirect"
)

// Fetcher is the fetch collaborator the handlers depend on. It is satisfied
// by *engine.Dispatcher; tests substitute a stub so no network or browser
// is involved.
type Fetcher interface {
	Dispatch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error)
}

// Scrape returns a handler for POST /api/v1/scrape.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup (when max_age is set).
//  3. Dispatch fetch through the engine tiers   (records fetch_ms)
//  4. Classify the redirect from requested vs. final URL.
//  5. Fill timing, cache, return 200.
func Scrape(f Fetcher, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		totalStart := time.Now()

		// ── 1. Parse request ────────────────────────────────────────
		var req models.ScrapeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.ScrapeResponse{
				Success:      false,
				RedirectType: redirect.TypeNone,
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}
		req.Defaults()

		// ── 2. Cache lookup ─────────────────────────────────────────
		cacheKey := cache.Key(req.URL, req.RenderJS, *req.Stealth)
		if cc != nil && req.MaxAge > 0 {
			if cached, hit := cc.Get(cacheKey, req.MaxAge); hit {
				// Shallow copy so concurrent hits never write the shared entry.
				out := *cached
				out.CacheStatus = "hit"
				out.Timing = models.TimingInfo{
					TotalMs: time.Since(totalStart).Milliseconds(),
				}
				c.JSON(http.StatusOK, &out)
				return
			}
		}

		// ── 3. Fetch ────────────────────────────────────────────────
		fetchStart := time.Now()
		result, err := f.Dispatch(c.Request.Context(), &engine.FetchRequest{
			URL:      req.URL,
			Headers:  req.Headers,
			Timeout:  time.Duration(req.Timeout) * time.Second,
			RenderJS: req.RenderJS,
			Stealth:  *req.Stealth,
			Proxy:    req.ProxyURL,
		})
		fetchMs := time.Since(fetchStart).Milliseconds()

		if err != nil {
			respondError(c, err, req.URL, models.TimingInfo{
				TotalMs: time.Since(totalStart).Milliseconds(),
				FetchMs: fetchMs,
			})
			return
		}

		// ── 4. Classify redirect ────────────────────────────────────
		finalURL := result.FinalURL
		if finalURL == "" {
			// No final URL from the engine means nothing moved.
			finalURL = req.URL
		}
		redir := redirect.Classify(req.URL, finalURL)

		resp := &models.ScrapeResponse{
			Success:          true,
			HTML:             result.HTML,
			StatusCode:       result.StatusCode,
			Headers:          result.Headers,
			FinalURL:         finalURL,
			RedirectDetected: redir.Detected,
			RedirectType:     redir.Type,
			OriginalURL:      redir.OriginalURL,
			EngineUsed:       result.EngineName,
			Timing: models.TimingInfo{
				TotalMs: time.Since(totalStart).Milliseconds(),
				FetchMs: fetchMs,
			},
		}

		// ── 5. Cache store ──────────────────────────────────────────
		if cc != nil && req.MaxAge > 0 {
			stored := *resp
			cc.Set(cacheKey, &stored)
			resp.CacheStatus = "miss"
		}

		c.JSON(http.StatusOK, resp)
	}
}

// respondError maps a ScrapeError to the correct HTTP status code and writes
// a structured JSON error response. No retries happen anywhere: a fetch
// failure is terminal for the request.
func respondError(c *gin.Context, err error, url string, timing models.TimingInfo) {
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		code := models.ErrCodeNavigation
		if errors.Is(err, context.DeadlineExceeded) {
			code = models.ErrCodeTimeout
		}
		scrapeErr = models.NewScrapeError(code, err.Error(), err)
	}
	if scrapeErr.URL == "" {
		scrapeErr.URL = url
	}

	c.JSON(mapErrorToStatus(scrapeErr), models.ScrapeResponse{
		Success:      false,
		RedirectType: redirect.TypeNone,
		Error:        scrapeErr.ToDetail(),
		Timing:       timing,
	})
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation, models.ErrCodeSitemapFetch, models.ErrCodeSitemapParse:
		return http.StatusBadGateway // 502
	case models.ErrCodeInvalidInput:
		return http.StatusBadRequest // 400
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
