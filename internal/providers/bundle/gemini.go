package bundle

import (
	"context"
	"strings"

	"briefboard/internal/domain"
	"briefboard/internal/providers/genai"
)

// GeminiGenerator produces bundles via the Gemini generateContent endpoint.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(client *genai.Client, model string) *GeminiGenerator {
	if model == "" {
		model = "gemini-3.1-pro-preview"
	}
	return &GeminiGenerator{client: client, model: model}
}

type geminiRequest struct {
	Contents         []genai.Content `json:"contents"`
	GenerationConfig map[string]any  `json:"generationConfig,omitempty"`
}

// payloadVariants returns the ordered request shapes to attempt. Upstream
// field naming for "force JSON output" is inconsistent across provider
// versions, so the camelCase mime hint is tried first, then the snake_case
// spelling, then a bare request with no hint at all.
func (g *GeminiGenerator) payloadVariants(prompt string) []geminiRequest {
	contents := []genai.Content{{
		Role:  "user",
		Parts: []genai.Part{{Text: buildInstruction(prompt)}},
	}}
	return []geminiRequest{
		{Contents: contents, GenerationConfig: map[string]any{"responseMimeType": "application/json"}},
		{Contents: contents, GenerationConfig: map[string]any{"response_mime_type": "application/json"}},
		{Contents: contents},
	}
}

func (g *GeminiGenerator) GenerateBundle(ctx context.Context, prompt string) (*domain.Bundle, error) {
	var resp *genai.GenerateContentResponse
	var attemptErrors []string
	for _, payload := range g.payloadVariants(prompt) {
		out, err := g.client.GenerateContent(ctx, g.model, payload)
		if err != nil {
			attemptErrors = append(attemptErrors, err.Error())
			continue
		}
		resp = out
		break
	}
	if resp == nil {
		return nil, domain.Upstreamf("gemini text generation failed for model %q after %d payload variants; last errors: %s",
			g.model, len(attemptErrors), strings.Join(tail(attemptErrors, 3), " | "))
	}

	text, err := extractText(resp)
	if err != nil {
		return nil, err
	}
	return parseBundle(text)
}

// extractText concatenates the text parts of the first candidate in order.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", domain.Upstreamf("gemini response has no candidates")
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", domain.Upstreamf("gemini response has no content parts")
	}
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", domain.Upstreamf("gemini response text is empty")
	}
	return b.String(), nil
}

func tail(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}

var _ Generator = (*GeminiGenerator)(nil)
