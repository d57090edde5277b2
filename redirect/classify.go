// Package redirect detects and classifies HTTP redirects by comparing the
// URL a caller asked for with the URL the fetch actually resolved to.
//
// All functions are pure and total over arbitrary string input: malformed
// URLs degrade to best-effort host/segment extraction rather than erroring,
// so the package is safe to call from any number of request workers with no
// locking.
package redirect

import "net/url"

// Type labels why a requested URL ended up at a different final URL.
type Type string

const (
	// TypeNone means no redirect was detected.
	TypeNone Type = "none"

	// TypeDomain means the final URL lives on a different host.
	TypeDomain Type = "domain"

	// TypeCategory means a product page collapsed to a broader category
	// page (shorter path, or a product segment replaced by a category one).
	TypeCategory Type = "category"

	// TypeProduct means one product page redirected to another (model
	// superseded or renamed).
	TypeProduct Type = "product"

	// TypeUnknown covers everything else, such as a final path deeper than
	// the original.
	TypeUnknown Type = "unknown"
)

// Result is the outcome of a single classification. It is immutable and
// has no identity beyond its values.
type Result struct {
	// Detected is false only when the two URLs normalize to the same key.
	Detected bool

	// Type is the redirect classification; TypeNone when Detected is false.
	Type Type

	// OriginalURL is the requested URL. Populated only when Detected.
	OriginalURL string

	// FinalURL is the URL the fetch resolved to.
	FinalURL string
}

// Classify compares the requested URL with the final resolved URL and
// decides whether a redirect occurred and what kind.
//
// Decision order:
//  1. equal normalized keys → no redirect
//  2. different hosts (www-stripped, as stored) → domain
//  3. shorter final path → category
//  4. equal-length differing paths → category or product, judged by the
//     last segment of each path
//  5. longer final path → unknown
//  6. anything left (normalize disagreed on case/scheme/slash subtleties
//     the segment comparison cannot see) → unknown
func Classify(originalURL, finalURL string) Result {
	if Normalize(originalURL) == Normalize(finalURL) {
		return Result{Detected: false, Type: TypeNone, FinalURL: finalURL}
	}

	// Parse the raw URLs, original case: segment heuristics are
	// case-sensitive in ways Normalize would destroy.
	origHost, origSegs := hostAndSegments(originalURL)
	finalHost, finalSegs := hostAndSegments(finalURL)

	result := Result{Detected: true, OriginalURL: originalURL, FinalURL: finalURL}

	if stripWWW(origHost) != stripWWW(finalHost) {
		result.Type = TypeDomain
		return result
	}

	switch {
	case len(finalSegs) < len(origSegs):
		result.Type = TypeCategory

	case len(finalSegs) == len(origSegs) && !equalSegments(origSegs, finalSegs):
		result.Type = compareLastSegments(origSegs, finalSegs)

	case len(finalSegs) > len(origSegs):
		result.Type = TypeUnknown

	default:
		// Same length, same segments, but the normalized keys differed
		// (scheme, host case, or separator subtleties). Nothing more
		// specific can be said.
		result.Type = TypeUnknown
	}

	return result
}

// compareLastSegments decides between category and product for equal-length
// paths whose segments differ.
func compareLastSegments(origSegs, finalSegs []string) Type {
	origLast := lastSegment(origSegs)
	finalLast := lastSegment(finalSegs)

	if IsProductIdentifier(origLast) && IsCategory(finalLast) {
		return TypeCategory
	}
	if IsProductIdentifier(origLast) && !IsProductIdentifier(finalLast) {
		return TypeCategory
	}
	return TypeProduct
}

// hostAndSegments extracts the host and non-empty path segments from a raw
// URL, degrading silently on parse failure.
func hostAndSegments(rawURL string) (string, []string) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", nil
	}
	return u.Host, pathSegments(u.Path)
}

func equalSegments(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func lastSegment(segs []string) string {
	if len(segs) == 0 {
		return ""
	}
	return segs[len(segs)-1]
}
