package redirect

import (
	"net/url"
	"strings"
)

// Normalize reduces a URL to a canonical equality key of the form
// "scheme://host+path". The whole URL is lower-cased first, a leading
// "www." host label is dropped, and one trailing "/" is trimmed from the
// path. The key is only meaningful for comparing two URLs; it is never a
// valid URL itself and must not feed path classification (classification
// works on the original-case URL).
//
// Malformed input still produces a best-effort key — callers rely on
// graceful degradation, so there is no error return.
func Normalize(rawURL string) string {
	lowered := strings.ToLower(rawURL)

	u, err := url.Parse(lowered)
	if err != nil {
		// Degenerate input: the lowered string itself is the key.
		return lowered
	}

	host := strings.TrimPrefix(u.Host, "www.")
	path := strings.TrimSuffix(u.Path, "/")

	return u.Scheme + "://" + host + path
}

// stripWWW removes a single leading "www." label from a host, as stored —
// no case folding. Used by Classify for the host comparison step, which
// deliberately differs from Normalize (only Normalize lower-cases).
func stripWWW(host string) string {
	return strings.TrimPrefix(host, "www.")
}

// pathSegments splits a URL path on "/" and drops empty components, so
// "/mowers//hrx217/" yields ["mowers", "hrx217"]. Order is left to right.
func pathSegments(path string) []string {
	parts := strings.Split(path, "/")
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			segments = append(segments, p)
		}
	}
	return segments
}
