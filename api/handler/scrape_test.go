package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/dngreen04-01/honda-price-update/cache"
	"github.com/dngreen04-01/honda-price-update/engine"
	"github.com/dngreen04-01/honda-price-update/models"
)

// stubFetcher returns a canned fetch result or error and records the
// last request it saw.
type stubFetcher struct {
	result  *engine.FetchResult
	err     error
	lastReq *engine.FetchRequest
}

func (s *stubFetcher) Dispatch(ctx context.Context, req *engine.FetchRequest) (*engine.FetchResult, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func scrapeRouter(f Fetcher, cc *cache.Cache) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/scrape", Scrape(f, cc))
	return r
}

func doScrape(t *testing.T, r *gin.Engine, body string) (*httptest.ResponseRecorder, models.ScrapeResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/scrape", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp models.ScrapeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v (body: %s)", err, w.Body.String())
	}
	return w, resp
}

func TestScrape_NoRedirect(t *testing.T) {
	f := &stubFetcher{result: &engine.FetchResult{
		HTML:       "<html><body>ok</body></html>",
		StatusCode: 200,
		FinalURL:   "http://a.com/mowers",
		Headers:    map[string]string{"Content-Type": "text/html"},
		EngineName: "http",
	}}

	w, resp := doScrape(t, scrapeRouter(f, nil), `{"url":"http://a.com/mowers"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	if !resp.Success {
		t.Fatal("expected success")
	}
	if resp.RedirectDetected {
		t.Error("no redirect expected")
	}
	if resp.RedirectType != "none" {
		t.Errorf("redirect_type = %q, want none", resp.RedirectType)
	}
	if resp.HTML != f.result.HTML {
		t.Errorf("html = %q, want %q", resp.HTML, f.result.HTML)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status_code = %d, want 200", resp.StatusCode)
	}
	if resp.Headers["Content-Type"] != "text/html" {
		t.Errorf("headers not forwarded: %v", resp.Headers)
	}
}

func TestScrape_ClassifiesRedirect(t *testing.T) {
	tests := []struct {
		name     string
		finalURL string
		wantType string
	}{
		{"domain", "http://b.com/mowers/hrx217", "domain"},
		{"category", "http://a.com/mowers", "category"},
		{"product", "http://a.com/mowers/hrx220", "product"},
		{"unknown", "http://a.com/mowers/hrx217/specs", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFetcher{result: &engine.FetchResult{
				HTML:       "<html></html>",
				StatusCode: 200,
				FinalURL:   tt.finalURL,
			}}

			_, resp := doScrape(t, scrapeRouter(f, nil), `{"url":"http://a.com/mowers/hrx217"}`)
			if !resp.RedirectDetected {
				t.Fatal("expected a detected redirect")
			}
			if string(resp.RedirectType) != tt.wantType {
				t.Errorf("redirect_type = %q, want %q", resp.RedirectType, tt.wantType)
			}
			if resp.OriginalURL != "http://a.com/mowers/hrx217" {
				t.Errorf("original_url = %q", resp.OriginalURL)
			}
			if resp.FinalURL != tt.finalURL {
				t.Errorf("final_url = %q, want %q", resp.FinalURL, tt.finalURL)
			}
		})
	}
}

func TestScrape_EmptyFinalURLFallsBack(t *testing.T) {
	// An engine with no final-URL signal must yield detected=false.
	f := &stubFetcher{result: &engine.FetchResult{HTML: "<html></html>", StatusCode: 200}}

	_, resp := doScrape(t, scrapeRouter(f, nil), `{"url":"http://a.com/x"}`)
	if resp.RedirectDetected {
		t.Error("fallback final URL must never read as a redirect")
	}
	if resp.FinalURL != "http://a.com/x" {
		t.Errorf("final_url = %q, want the request URL", resp.FinalURL)
	}
}

func TestScrape_DefaultsApplied(t *testing.T) {
	f := &stubFetcher{result: &engine.FetchResult{HTML: "x", StatusCode: 200, FinalURL: "http://a.com/x"}}

	doScrape(t, scrapeRouter(f, nil), `{"url":"http://a.com/x"}`)
	if f.lastReq == nil {
		t.Fatal("fetcher not called")
	}
	if !f.lastReq.Stealth {
		t.Error("stealth should default to true")
	}
	if f.lastReq.Timeout.Seconds() != 30 {
		t.Errorf("timeout = %v, want 30s", f.lastReq.Timeout)
	}
	if f.lastReq.RenderJS != nil {
		t.Error("render_js should stay nil when omitted")
	}
}

func TestScrape_InvalidInput(t *testing.T) {
	f := &stubFetcher{}

	w, resp := doScrape(t, scrapeRouter(f, nil), `{"url":"not a url"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp.Success {
		t.Error("expected failure")
	}
	if resp.Error == nil || resp.Error.Code != models.ErrCodeInvalidInput {
		t.Errorf("error = %+v, want code %s", resp.Error, models.ErrCodeInvalidInput)
	}
	if f.lastReq != nil {
		t.Error("fetcher must not be called on invalid input")
	}
}

func TestScrape_FetchFailure(t *testing.T) {
	f := &stubFetcher{err: models.NewScrapeError(models.ErrCodeNavigation, "all engines failed", errors.New("boom"))}

	w, resp := doScrape(t, scrapeRouter(f, nil), `{"url":"http://a.com/x"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	if resp.Success {
		t.Error("expected failure")
	}
	if resp.Error == nil {
		t.Fatal("expected structured error")
	}
	if resp.Error.Code != models.ErrCodeNavigation {
		t.Errorf("error code = %q, want %s", resp.Error.Code, models.ErrCodeNavigation)
	}
	if resp.Error.URL != "http://a.com/x" {
		t.Errorf("error url = %q, want the request URL", resp.Error.URL)
	}
}

func TestScrape_TimeoutMapsTo504(t *testing.T) {
	f := &stubFetcher{err: models.NewScrapeError(models.ErrCodeTimeout, "deadline exceeded", context.DeadlineExceeded)}

	w, _ := doScrape(t, scrapeRouter(f, nil), `{"url":"http://a.com/x"}`)
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", w.Code)
	}
}

func TestScrape_CacheRoundTrip(t *testing.T) {
	f := &stubFetcher{result: &engine.FetchResult{HTML: "cached page", StatusCode: 200, FinalURL: "http://a.com/x"}}
	cc := cache.New(10)
	r := scrapeRouter(f, cc)

	_, first := doScrape(t, r, `{"url":"http://a.com/x","max_age":60000}`)
	if first.CacheStatus != "miss" {
		t.Errorf("first cache_status = %q, want miss", first.CacheStatus)
	}

	f.result = nil
	f.err = errors.New("must not fetch again")
	_, second := doScrape(t, r, `{"url":"http://a.com/x","max_age":60000}`)
	if second.CacheStatus != "hit" {
		t.Errorf("second cache_status = %q, want hit", second.CacheStatus)
	}
	if second.HTML != "cached page" {
		t.Errorf("cached html = %q", second.HTML)
	}
}
