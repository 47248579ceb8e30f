package video

import (
	"encoding/json"
	"testing"
)

func opFromJSON(t *testing.T, raw string) *Operation {
	t.Helper()
	op := &Operation{Raw: json.RawMessage(raw)}
	if err := json.Unmarshal(op.Raw, op); err != nil {
		t.Fatalf("unmarshal operation: %v", err)
	}
	return op
}

func TestExtractMediaURLNoCandidates(t *testing.T) {
	op := opFromJSON(t, `{
		"name": "operations/abc",
		"done": true,
		"response": {"note": "no media here", "count": 3, "uri": "not-a-url"}
	}`)
	if got := ExtractMediaURL(op); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
	if got := ExtractMediaURL(nil); got != "" {
		t.Fatalf("expected empty result for nil operation, got %q", got)
	}
}

func TestExtractMediaURLPrefersMP4RegardlessOfOrder(t *testing.T) {
	first := `{
		"response": {
			"thumbnail": {"uri": "https://cdn.example.com/thumb.png"},
			"video": {"uri": "https://cdn.example.com/clip.MP4"}
		}
	}`
	reversed := `{
		"response": {
			"video": {"uri": "https://cdn.example.com/clip.MP4"},
			"thumbnail": {"uri": "https://cdn.example.com/thumb.png"}
		}
	}`
	for _, raw := range []string{first, reversed} {
		if got := ExtractMediaURL(opFromJSON(t, raw)); got != "https://cdn.example.com/clip.MP4" {
			t.Fatalf("expected the mp4 url, got %q", got)
		}
	}
}

func TestExtractMediaURLDownloadMarkers(t *testing.T) {
	op := opFromJSON(t, `{
		"response": {
			"preview": {"uri": "https://cdn.example.com/preview.webm"},
			"file": {"downloadUri": "https://api.example.com/v1/files/xyz:download"}
		}
	}`)
	if got := ExtractMediaURL(op); got != "https://api.example.com/v1/files/xyz:download" {
		t.Fatalf("expected the download url, got %q", got)
	}
}

func TestExtractMediaURLFallsBackToTraversalOrder(t *testing.T) {
	op := opFromJSON(t, `{
		"response": {
			"generatedSamples": [
				{"video": {"videoUri": "https://cdn.example.com/a.webm"}},
				{"video": {"videoUri": "https://cdn.example.com/b.webm"}}
			]
		}
	}`)
	if got := ExtractMediaURL(op); got != "https://cdn.example.com/a.webm" {
		t.Fatalf("expected first traversal match, got %q", got)
	}
}

func TestExtractMediaURLKeyMatchingIsCaseInsensitive(t *testing.T) {
	op := opFromJSON(t, `{"response": {"VideoUri": "https://cdn.example.com/clip.mp4"}}`)
	if got := ExtractMediaURL(op); got != "https://cdn.example.com/clip.mp4" {
		t.Fatalf("expected case-insensitive key match, got %q", got)
	}
}

func TestExtractMediaURLIgnoresUnrelatedKeys(t *testing.T) {
	op := opFromJSON(t, `{"response": {"homepage": "https://example.com/clip.mp4"}}`)
	if got := ExtractMediaURL(op); got != "" {
		t.Fatalf("unrelated keys must not qualify, got %q", got)
	}
}
