package redirect

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "http://a.com/foo", "http://a.com/foo"},
		{"strips www", "http://www.a.com/foo", "http://a.com/foo"},
		{"strips trailing slash", "http://a.com/foo/", "http://a.com/foo"},
		{"lowercases host", "http://A.COM/foo", "http://a.com/foo"},
		{"lowercases path", "http://a.com/FOO", "http://a.com/foo"},
		{"lowercases scheme", "HTTP://a.com/foo", "http://a.com/foo"},
		{"root path", "http://a.com/", "http://a.com"},
		{"no path", "http://a.com", "http://a.com"},
		{"www only as prefix", "http://wwwstore.a.com/x", "http://wwwstore.a.com/x"},
		{"internal slashes kept", "http://a.com/x//y", "http://a.com/x//y"},
		{"only one trailing slash trimmed", "http://a.com/x//", "http://a.com/x/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_EquivalentForms(t *testing.T) {
	// The two spellings that normalization exists to equate.
	a := Normalize("http://a.com/foo")
	b := Normalize("http://www.a.com/foo/")
	if a != b {
		t.Errorf("expected equal keys, got %q and %q", a, b)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	urls := []string{
		"http://www.a.com/Foo/",
		"https://b.com/products/HRX217",
		"a.com/no/scheme",
		"",
	}
	for _, u := range urls {
		once := Normalize(u)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not a projection for %q: %q then %q", u, once, twice)
		}
	}
}

func TestNormalize_MalformedInput(t *testing.T) {
	// Must never panic and must return something deterministic.
	inputs := []string{"", "://", "http://", "%%%", "http://[::1"}
	for _, in := range inputs {
		got1 := Normalize(in)
		got2 := Normalize(in)
		if got1 != got2 {
			t.Errorf("Normalize(%q) not deterministic: %q vs %q", in, got1, got2)
		}
	}
}

func TestPathSegments(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"/mowers/hrx217", []string{"mowers", "hrx217"}},
		{"/mowers//hrx217/", []string{"mowers", "hrx217"}},
		{"/", nil},
		{"", nil},
	}

	for _, tt := range tests {
		got := pathSegments(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("pathSegments(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("pathSegments(%q)[%d] = %q, want %q", tt.in, i, got[i], tt.want[i])
			}
		}
	}
}
