package bundle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"briefboard/internal/domain"
	"briefboard/internal/providers/genai"
)

const goodBundleJSON = `{
  "negatives": ["blurry", "low quality", "oversaturated", "text", "watermark", "deformed", "grainy", "flat lighting"],
  "palette": {
    "primary": ["#FF6B6B"],
    "secondary": ["#1E1E1E"],
    "accent": ["#00D4FF"],
    "background": ["#0A0A0A"]
  },
  "summary": {
    "logline": "A keeper tends the last light on a darkening coast.",
    "style": "moody cinematic realism",
    "keywords": ["lighthouse", "dusk", "solitude", "sea", "fog"]
  }
}`

func textResponse(text string) string {
	payload := map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
	data, _ := json.Marshal(payload)
	return string(data)
}

func newGemini(t *testing.T, handler http.HandlerFunc) *GeminiGenerator {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := genai.NewClient(genai.Options{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return NewGeminiGenerator(client, "gemini-test")
}

func TestGenerateBundleFirstVariantWins(t *testing.T) {
	var bodies []string
	g := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		fmt.Fprint(w, textResponse(goodBundleJSON))
	})

	out, err := g.GenerateBundle(context.Background(), "a lonely lighthouse at dusk")
	if err != nil {
		t.Fatalf("GenerateBundle: %v", err)
	}
	if len(bodies) != 1 {
		t.Fatalf("expected a single request, got %d", len(bodies))
	}
	if !strings.Contains(bodies[0], `"responseMimeType"`) {
		t.Fatalf("first variant should carry the camelCase mime hint: %s", bodies[0])
	}
	if len(out.Negatives) != 8 {
		t.Fatalf("unexpected negatives: %v", out.Negatives)
	}
	if out.Summary.Logline == "" || len(out.Summary.Keywords) != 5 {
		t.Fatalf("unexpected summary: %+v", out.Summary)
	}
}

func TestGenerateBundleFallsThroughVariants(t *testing.T) {
	var bodies []string
	g := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(body))
		if len(bodies) < 3 {
			http.Error(w, `{"error":{"message":"unknown field"}}`, http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, textResponse(goodBundleJSON))
	})

	if _, err := g.GenerateBundle(context.Background(), "prompt"); err != nil {
		t.Fatalf("GenerateBundle: %v", err)
	}
	if len(bodies) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(bodies))
	}
	if !strings.Contains(bodies[1], `"response_mime_type"`) {
		t.Fatalf("second variant should carry the snake_case mime hint: %s", bodies[1])
	}
	if strings.Contains(bodies[2], "mime") {
		t.Fatalf("third variant should carry no mime hint: %s", bodies[2])
	}
}

func TestGenerateBundleAggregatesVariantErrors(t *testing.T) {
	g := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusServiceUnavailable)
	})

	_, err := g.GenerateBundle(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream error, got %v", err)
	}
	if !strings.Contains(err.Error(), "3 payload variants") || !strings.Contains(err.Error(), "model overloaded") {
		t.Fatalf("aggregate error should carry attempt context: %v", err)
	}
}

func TestGenerateBundleHandlesFencedOutput(t *testing.T) {
	g := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fenced := "Here you go:\n```json\n" + goodBundleJSON + "\n```\nEnjoy!"
		fmt.Fprint(w, textResponse(fenced))
	})

	out, err := g.GenerateBundle(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateBundle: %v", err)
	}
	if out.Palette.Primary[0] != "#FF6B6B" {
		t.Fatalf("unexpected palette: %+v", out.Palette)
	}
}

func TestGenerateBundleConcatenatesParts(t *testing.T) {
	g := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		half := len(goodBundleJSON) / 2
		payload := map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"parts": []any{
							map[string]any{"text": goodBundleJSON[:half]},
							map[string]any{"text": ""},
							map[string]any{"text": goodBundleJSON[half:]},
						},
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	})

	if _, err := g.GenerateBundle(context.Background(), "prompt"); err != nil {
		t.Fatalf("GenerateBundle: %v", err)
	}
}

func TestGenerateBundleNoCandidates(t *testing.T) {
	g := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"candidates": []}`)
	})

	_, err := g.GenerateBundle(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrUpstream) || !strings.Contains(err.Error(), "no candidates") {
		t.Fatalf("expected no-candidates upstream error, got %v", err)
	}
}

func TestGenerateBundleInvalidJSON(t *testing.T) {
	g := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, textResponse("{not json at all"))
	})

	_, err := g.GenerateBundle(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrUpstream) || !strings.Contains(err.Error(), "valid JSON") {
		t.Fatalf("expected JSON parse diagnostic, got %v", err)
	}
}

func TestGenerateBundleMissingKey(t *testing.T) {
	incomplete := `{"negatives": ["a"], "palette": {"primary": ["#000000"]}}`
	g := newGemini(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, textResponse(incomplete))
	})

	_, err := g.GenerateBundle(context.Background(), "prompt")
	if !errors.Is(err, domain.ErrUpstream) || !strings.Contains(err.Error(), `missing "summary"`) {
		t.Fatalf("expected missing-key diagnostic, got %v", err)
	}
}
