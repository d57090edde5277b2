package redirect

import (
	"regexp"
	"strings"
)

// categoryKeywords are hand-tuned substrings that mark a path segment as a
// product-grouping page. Matching is case-insensitive substring containment,
// not whole-word.
var categoryKeywords = []string{
	"lawn-mower", "mower", "generator", "pump", "engine", "tiller",
	"blower", "trimmer", "chainsaw", "sprayer", "washer", "marine",
	"outboard", "portable", "industrial", "domestic", "commercial",
	"accessories", "parts", "products", "category", "range", "series",
}

// modelCodePattern matches two or more letters immediately followed by one
// or more digits, anchored at the start of the segment ("hrx217", "eu70is").
var modelCodePattern = regexp.MustCompile(`(?i)^[a-z]{2,}[0-9]+`)

// IsProductIdentifier reports whether a path segment looks like a
// manufacturer model or SKU code.
func IsProductIdentifier(segment string) bool {
	// Model codes always carry at least one digit.
	if strings.ContainsAny(segment, "0123456789") {
		return true
	}
	// Letters-then-digits prefix check. Subsumed by the digit rule above,
	// but kept as a separate branch so the two heuristics can diverge
	// independently (e.g. if the digit rule is ever tightened).
	if modelCodePattern.MatchString(segment) {
		return true
	}
	return false
}

// IsCategory reports whether a path segment looks like a descriptive
// product-grouping label rather than a specific product.
//
// Not the negation of IsProductIdentifier: a segment can satisfy neither
// predicate, so callers must treat the two flags independently.
func IsCategory(segment string) bool {
	lowered := strings.ToLower(segment)
	for _, kw := range categoryKeywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	// Hyphenated slugs without digits read as categories ("lawn-care").
	if strings.Contains(segment, "-") && !strings.ContainsAny(segment, "0123456789") {
		return true
	}
	return false
}
