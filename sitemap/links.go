package sitemap

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// SameDomainLinks extracts absolute same-domain links from rendered HTML,
// in document order, de-duplicated. Used as a discovery fallback when a
// site has no sitemap worth speaking of.
func SameDomainLinks(rawHTML string, sourceURL string) []string {
	base, err := url.Parse(sourceURL)
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var links []string
	seen := make(map[string]struct{})
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists || href == "" {
			return
		}
		if strings.HasPrefix(href, "#") || strings.HasPrefix(href, "javascript:") ||
			strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
			return
		}

		// Resolve relative URLs against the base.
		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}
		if !strings.EqualFold(resolved.Hostname(), base.Hostname()) {
			return
		}

		resolved.Fragment = ""
		abs := resolved.String()
		if _, dup := seen[abs]; dup {
			return
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
	})

	return links
}
