package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dngreen04-01/honda-price-update/engine"
	"github.com/dngreen04-01/honda-price-update/models"
	"github.com/dngreen04-01/honda-price-update/sitemap"
)

// Sitemap returns a handler for POST /api/v1/sitemap.
// It discovers page URLs for a site from /sitemap.xml, robots.txt Sitemap:
// directives, and same-domain homepage links, in that order. Document order
// is preserved and duplicates keep their first position.
func Sitemap(f Fetcher, sf *sitemap.Fetcher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.SitemapRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, models.SitemapResponse{
				Success: false,
				URLs:    []string{},
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: err.Error(),
				},
			})
			return
		}

		parsed, err := url.Parse(req.URL)
		if err != nil || parsed.Host == "" {
			c.JSON(http.StatusBadRequest, models.SitemapResponse{
				Success: false,
				URLs:    []string{},
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "invalid URL",
					URL:     req.URL,
				},
			})
			return
		}

		ctx := c.Request.Context()
		baseOrigin := parsed.Scheme + "://" + parsed.Host

		var urls []string
		seen := make(map[string]struct{})
		add := func(us []string) {
			for _, u := range us {
				if _, dup := seen[u]; dup {
					continue
				}
				seen[u] = struct{}{}
				urls = append(urls, u)
			}
		}

		// 1. /sitemap.xml at the site root. Keep the error: if every other
		// source also comes up empty, it is the reason discovery failed.
		primary, primaryErr := sf.Fetch(ctx, baseOrigin+"/sitemap.xml")
		add(primary)

		// 2. robots.txt Sitemap: directives.
		for _, sitemapURL := range sf.RobotsSitemaps(ctx, baseOrigin+"/robots.txt") {
			fromRobots, err := sf.Fetch(ctx, sitemapURL)
			if err != nil {
				slog.Debug("sitemap: robots-declared sitemap failed",
					"url", sitemapURL, "error", err)
				continue
			}
			add(fromRobots)
		}

		// 3. Same-domain links from the rendered homepage.
		add(homepageLinks(c, f, req.URL, parsed.Host))

		if len(urls) == 0 && primaryErr != nil {
			respondSitemapError(c, primaryErr, req.URL)
			return
		}

		if urls == nil {
			urls = []string{}
		}
		c.JSON(http.StatusOK, models.SitemapResponse{
			Success: true,
			URLs:    urls,
			Total:   len(urls),
		})
	}
}

// homepageLinks fetches the homepage through the engine tiers and extracts
// same-domain links. Failures degrade to an empty list: link discovery is a
// fallback source, not a required one.
func homepageLinks(c *gin.Context, f Fetcher, homeURL, host string) []string {
	result, err := f.Dispatch(c.Request.Context(), &engine.FetchRequest{
		URL:     homeURL,
		Timeout: 30 * time.Second,
		Stealth: true,
	})
	if err != nil {
		slog.Debug("sitemap: failed to fetch homepage for links",
			"url", homeURL, "error", err)
		return nil
	}
	return sitemap.SameDomainLinks(result.HTML, homeURL)
}

// respondSitemapError writes a structured sitemap failure response.
func respondSitemapError(c *gin.Context, err error, url string) {
	var scrapeErr *models.ScrapeError
	if !errors.As(err, &scrapeErr) {
		scrapeErr = models.NewScrapeError(models.ErrCodeSitemapFetch, err.Error(), err)
	}
	if scrapeErr.URL == "" {
		scrapeErr.URL = url
	}

	c.JSON(mapErrorToStatus(scrapeErr), models.SitemapResponse{
		Success: false,
		URLs:    []string{},
		Error:   scrapeErr.ToDetail(),
	})
}
