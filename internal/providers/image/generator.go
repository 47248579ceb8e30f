package image

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"briefboard/internal/domain"
	"briefboard/internal/providers/genai"
	"briefboard/internal/storage"
)

// Generator produces a stored image asset for a prompt.
type Generator interface {
	GenerateAndStore(ctx context.Context, prompt, prefix, description string) (*domain.AssetRef, error)
}

// GeminiGenerator calls the Gemini image model and stages results through a
// FileStore.
type GeminiGenerator struct {
	client *genai.Client
	files  *storage.FileStore
	model  string
}

func NewGeminiGenerator(client *genai.Client, files *storage.FileStore, model string) *GeminiGenerator {
	if model == "" {
		model = "gemini-3-pro-image-preview"
	}
	return &GeminiGenerator{client: client, files: files, model: model}
}

type imageRequest struct {
	Contents         []genai.Content `json:"contents"`
	GenerationConfig map[string]any  `json:"generationConfig"`
}

// GenerateImage calls the image model and returns the generated image as a
// data URL. The modality override requests image-only output; without it
// providers intermittently return only text.
func (g *GeminiGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	payload := imageRequest{
		Contents: []genai.Content{{
			Role:  "user",
			Parts: []genai.Part{{Text: prompt}},
		}},
		GenerationConfig: map[string]any{"responseModalities": []string{"Image"}},
	}
	resp, err := g.client.GenerateContent(ctx, g.model, payload)
	if err != nil {
		return "", err
	}
	return extractImageDataURL(resp)
}

// extractImageDataURL pulls the first inline-data part of the first
// candidate, accepting both camelCase and snake_case field spellings.
func extractImageDataURL(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", domain.Upstreamf("image response has no candidates")
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", domain.Upstreamf("image response has no content parts")
	}
	for i := range parts {
		inline := parts[i].Inline()
		if inline == nil {
			continue
		}
		if inline.Data != "" && inline.Mime() != "" {
			return fmt.Sprintf("data:%s;base64,%s", inline.Mime(), inline.Data), nil
		}
	}
	return "", domain.Upstreamf("image response contained no inline image data")
}

// DecodeDataURL splits and decodes a "data:<mime>;base64,<payload>" string.
func DecodeDataURL(dataURL string) (mime string, data []byte, err error) {
	if !strings.HasPrefix(dataURL, "data:") || !strings.Contains(dataURL, ";base64,") {
		return "", nil, domain.Validationf("expected base64 data URL (data:<mime>;base64,<data>)")
	}
	header, b64 := splitOnce(dataURL, ",")
	mime = strings.SplitN(strings.TrimPrefix(header, "data:"), ";", 2)[0]
	data, err = base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return "", nil, domain.Validationf("invalid base64 image data: %v", err)
	}
	return mime, data, nil
}

// GenerateAndStore composes generation, decoding and staging, returning a
// reference under the static-serving namespace.
func (g *GeminiGenerator) GenerateAndStore(ctx context.Context, prompt, prefix, description string) (*domain.AssetRef, error) {
	dataURL, err := g.GenerateImage(ctx, prompt)
	if err != nil {
		return nil, err
	}
	mime, data, err := DecodeDataURL(dataURL)
	if err != nil {
		return nil, err
	}
	url, err := g.files.Save(prefix, extForMime(mime), data)
	if err != nil {
		return nil, err
	}
	return &domain.AssetRef{ImageURL: url, Description: description}, nil
}

// extForMime maps known image mime types onto file extensions. Unknown
// types fall back to a generic binary extension.
func extForMime(mime string) string {
	switch strings.ToLower(mime) {
	case "image/png":
		return "png"
	case "image/jpeg", "image/jpg":
		return "jpg"
	case "image/webp":
		return "webp"
	default:
		return "bin"
	}
}

func splitOnce(s, sep string) (string, string) {
	idx := strings.Index(s, sep)
	return s[:idx], s[idx+len(sep):]
}

var _ Generator = (*GeminiGenerator)(nil)
