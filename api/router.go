package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dngreen04-01/honda-price-update/api/handler"
	"github.com/dngreen04-01/honda-price-update/api/middleware"
	"github.com/dngreen04-01/honda-price-update/cache"
	"github.com/dngreen04-01/honda-price-update/config"
	"github.com/dngreen04-01/honda-price-update/sitemap"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(f handler.Fetcher, sf *sitemap.Fetcher, sp handler.StatsProvider, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(sp, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Scrape — fetch + redirect classification.
	protected.POST("/scrape", handler.Scrape(f, cc))

	// Sitemap — site URL discovery.
	protected.POST("/sitemap", handler.Sitemap(f, sf))

	return r
}
