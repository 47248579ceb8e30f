package bundle

import (
	"context"
	"encoding/json"

	"briefboard/internal/domain"
)

// Generator turns a free-text creative prompt into a validated bundle of
// negatives, palette and summary.
type Generator interface {
	GenerateBundle(ctx context.Context, prompt string) (*domain.Bundle, error)
}

// instruction is the structured-output contract sent to every provider.
// The item-count ranges are advisory: they steer the model but are not
// enforced when the response is parsed.
const instruction = `Return JSON only (no markdown). Schema:
{
  "negatives": [string, ...],
  "palette": {
    "primary": [hex, ...],
    "secondary": [hex, ...],
    "accent": [hex, ...],
    "background": [hex, ...]
  },
  "summary": {
    "logline": string,
    "style": string,
    "keywords": [string, ...]
  }
}

Rules:
- Hex codes must look like "#RRGGBB".
- negatives must be ONLY negative constraints for image generation (no positives).
- Keep negatives between 8 and 20 items.
- keywords between 5 and 12 items.`

func buildInstruction(prompt string) string {
	return instruction + "\n\nPROMPT:\n" + prompt
}

// parseBundle extracts the JSON object from raw model output and checks
// that all three top-level keys are present. Parse failures and missing
// keys produce distinct diagnostics; both are upstream failures because the
// provider violated the structured-output contract.
func parseBundle(raw string) (*domain.Bundle, error) {
	fragment := extractJSONFragment(raw)
	if fragment == "" {
		return nil, domain.Upstreamf("model returned no JSON object, got: %s", excerpt(raw))
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(fragment), &keys); err != nil {
		return nil, domain.Upstreamf("model did not return valid JSON (%v), got: %s", err, excerpt(raw))
	}
	for _, key := range []string{"negatives", "palette", "summary"} {
		if _, ok := keys[key]; !ok {
			return nil, domain.Upstreamf("model response missing %q key", key)
		}
	}

	var out domain.Bundle
	if err := json.Unmarshal([]byte(fragment), &out); err != nil {
		return nil, domain.Upstreamf("model bundle has unexpected shape: %v", err)
	}
	return &out, nil
}

func excerpt(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max]
}
