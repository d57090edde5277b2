package redirect

import "testing"

func TestIsProductIdentifier(t *testing.T) {
	tests := []struct {
		segment string
		want    bool
	}{
		{"hrx217", true},
		{"HRX217", true},
		{"eu70is", true},
		{"eu22i", true},
		{"217", true},
		{"gx-390", true},
		{"lawn-mowers", false},
		{"mowers", false},
		{"about-us", false},
		{"", false},
		{"x", false},
	}

	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			if got := IsProductIdentifier(tt.segment); got != tt.want {
				t.Errorf("IsProductIdentifier(%q) = %v, want %v", tt.segment, got, tt.want)
			}
		})
	}
}

func TestIsProductIdentifier_Deterministic(t *testing.T) {
	for _, seg := range []string{"hrx217", "mowers", ""} {
		first := IsProductIdentifier(seg)
		for i := 0; i < 3; i++ {
			if IsProductIdentifier(seg) != first {
				t.Fatalf("IsProductIdentifier(%q) not stable", seg)
			}
		}
	}
}

func TestIsCategory(t *testing.T) {
	tests := []struct {
		segment string
		want    bool
	}{
		// Keyword hits, case-insensitive, substring not whole-word.
		{"mowers", true},
		{"Lawn-Mowers", true},
		{"GENERATORS", true},
		{"water-pumps", true},
		{"engines", true},
		{"spare-parts", true},
		{"all-products", true},
		{"hrx-series", true},
		// Hyphen with no digit.
		{"about-us", true},
		{"garden-care", true},
		// Hyphen with digit: not a category by the hyphen rule.
		{"gx-390", false},
		// Plain words outside the keyword set.
		{"about", false},
		{"contact", false},
		{"hrx217", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.segment, func(t *testing.T) {
			if got := IsCategory(tt.segment); got != tt.want {
				t.Errorf("IsCategory(%q) = %v, want %v", tt.segment, got, tt.want)
			}
		})
	}
}

func TestSegmentPredicates_Independent(t *testing.T) {
	// The predicates are not mutually exclusive and not exhaustive.
	cases := []struct {
		segment  string
		product  bool
		category bool
	}{
		{"hrx217", true, false},       // product only
		{"mowers", false, true},       // category only
		{"contact", false, false},     // neither
		{"mower-hrx217", true, true},  // both: digit + keyword substring
		{"eu70is-generator", true, true},
	}

	for _, c := range cases {
		if got := IsProductIdentifier(c.segment); got != c.product {
			t.Errorf("IsProductIdentifier(%q) = %v, want %v", c.segment, got, c.product)
		}
		if got := IsCategory(c.segment); got != c.category {
			t.Errorf("IsCategory(%q) = %v, want %v", c.segment, got, c.category)
		}
	}
}
