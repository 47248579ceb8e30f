package bundle

import "testing"

func TestExtractJSONFragment(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced no language", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"leading commentary", "Sure, here is the JSON: {\"a\":1} hope it helps", `{"a":1}`},
		{"fence and commentary", "```json\nNote:\n{\"a\":1}\n```", `{"a":1}`},
		{"empty", "   ", ""},
		{"no object", "no braces here", "no braces here"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractJSONFragment(tc.in); got != tc.want {
				t.Fatalf("extractJSONFragment(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseBundlePresenceIsSufficient(t *testing.T) {
	// Deeper schema is trusted: sparse but key-complete input is accepted.
	raw := `{"negatives": ["x"], "palette": {}, "summary": {}}`
	if _, err := parseBundle(raw); err != nil {
		t.Fatalf("expected acceptance with all three keys present, got %v", err)
	}
}

func TestParseBundleEachKeyIsNecessary(t *testing.T) {
	cases := map[string]string{
		"negatives": `{"palette": {}, "summary": {}}`,
		"palette":   `{"negatives": [], "summary": {}}`,
		"summary":   `{"negatives": [], "palette": {}}`,
	}
	for key, raw := range cases {
		if _, err := parseBundle(raw); err == nil {
			t.Fatalf("expected failure when %q is missing", key)
		}
	}
}
