// Package sitemap fetches and parses sitemap-protocol XML documents
// (namespace http://www.sitemaps.org/schemas/sitemap/0.9) into flat,
// document-ordered URL lists.
package sitemap

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dngreen04-01/honda-price-update/config"
	"github.com/dngreen04-01/honda-price-update/models"
)

// index represents a sitemap index XML file.
type index struct {
	XMLName  xml.Name `xml:"sitemapindex"`
	Sitemaps []entry  `xml:"sitemap"`
}

// urlset represents a sitemap URL set XML file.
type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	URLs    []entry  `xml:"url"`
}

// entry is a single <sitemap> or <url> element; only <loc> matters here.
type entry struct {
	Loc string `xml:"loc"`
}

// maxIndexDepth bounds sitemap-index recursion so a self-referencing index
// cannot loop forever.
const maxIndexDepth = 5

// Fetcher retrieves sitemap and robots.txt documents over plain HTTP.
// The client is injected so tests can point it at an httptest server.
type Fetcher struct {
	client  *http.Client
	maxBody int64
}

// NewFetcher creates a Fetcher. A nil client falls back to a client with
// the configured per-document timeout.
func NewFetcher(client *http.Client, cfg config.SitemapConfig) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: cfg.FetchTimeout}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = 5 << 20
	}
	return &Fetcher{client: client, maxBody: maxBody}
}

// Fetch downloads a sitemap URL and returns every <url><loc> value in
// document order. Sitemap index files are followed recursively, their URL
// lists concatenated in index order.
func (f *Fetcher) Fetch(ctx context.Context, sitemapURL string) ([]string, error) {
	return f.fetch(ctx, sitemapURL, 0)
}

func (f *Fetcher) fetch(ctx context.Context, sitemapURL string, depth int) ([]string, error) {
	if depth > maxIndexDepth {
		return nil, models.NewScrapeError(
			models.ErrCodeSitemapFetch,
			"sitemap index nesting too deep",
			nil,
		).WithURL(sitemapURL)
	}

	body, err := f.get(ctx, sitemapURL)
	if err != nil {
		return nil, err
	}
	return f.parse(ctx, sitemapURL, body, depth)
}

// parse interprets a sitemap document, trying the index form first.
func (f *Fetcher) parse(ctx context.Context, sitemapURL string, body []byte, depth int) ([]string, error) {
	var idx index
	if err := xml.Unmarshal(body, &idx); err == nil {
		var urls []string
		for _, s := range idx.Sitemaps {
			loc := strings.TrimSpace(s.Loc)
			if loc == "" {
				continue
			}
			nested, err := f.fetch(ctx, loc, depth+1)
			if err != nil {
				// A broken sub-sitemap should not sink the whole index.
				continue
			}
			urls = append(urls, nested...)
		}
		return urls, nil
	}

	var us urlset
	if err := xml.Unmarshal(body, &us); err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeSitemapParse,
			"document is neither a sitemap nor a sitemap index",
			err,
		).WithURL(sitemapURL)
	}

	urls := make([]string, 0, len(us.URLs))
	for _, u := range us.URLs {
		if loc := strings.TrimSpace(u.Loc); loc != "" {
			urls = append(urls, loc)
		}
	}
	return urls, nil
}

// RobotsSitemaps fetches robots.txt and extracts Sitemap: directives.
// Errors degrade to an empty list: robots.txt is a discovery hint, not a
// required document.
func (f *Fetcher) RobotsSitemaps(ctx context.Context, robotsURL string) []string {
	body, err := f.get(ctx, robotsURL)
	if err != nil {
		return nil
	}

	var sitemaps []string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if len(line) < len("sitemap:") {
			continue
		}
		if strings.EqualFold(line[:len("sitemap:")], "sitemap:") {
			if u := strings.TrimSpace(line[len("sitemap:"):]); u != "" {
				sitemaps = append(sitemaps, u)
			}
		}
	}
	return sitemaps
}

// get performs a bounded GET and returns the body.
func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeSitemapFetch, "invalid sitemap URL", err,
		).WithURL(rawURL)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeSitemapFetch, "sitemap fetch failed", err,
		).WithURL(rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, models.NewScrapeError(
			models.ErrCodeSitemapFetch,
			fmt.Sprintf("sitemap fetch returned status %d", resp.StatusCode),
			nil,
		).WithURL(rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeSitemapFetch, "failed to read sitemap body", err,
		).WithURL(rawURL)
	}
	return body, nil
}
