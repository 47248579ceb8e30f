package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"briefboard/internal/domain"
)

// Options controls how the Gemini REST client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// Client is a thin facade over the generativelanguage REST API so providers
// can focus on translating domain requests into payloads.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

const (
	defaultBaseURL  = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout  = 120 * time.Second
	maxErrorBodyLen = 1000
)

// Content/Part mirror the generateContent wire format. Inline data appears
// as camelCase in REST responses and snake_case in SDK-style payloads; both
// spellings are accepted.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

type Part struct {
	Text            string      `json:"text,omitempty"`
	InlineData      *InlineData `json:"inlineData,omitempty"`
	InlineDataSnake *InlineData `json:"inline_data,omitempty"`
}

type InlineData struct {
	MimeType      string `json:"mimeType,omitempty"`
	MimeTypeSnake string `json:"mime_type,omitempty"`
	Data          string `json:"data,omitempty"`
}

// Inline returns the part's inline data regardless of field spelling.
func (p *Part) Inline() *InlineData {
	if p.InlineData != nil {
		return p.InlineData
	}
	return p.InlineDataSnake
}

// Mime returns the inline data's mime type regardless of field spelling.
func (d *InlineData) Mime() string {
	if d.MimeType != "" {
		return d.MimeType
	}
	return d.MimeTypeSnake
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may
// provide a nil HTTP client; one with a generation-friendly timeout is
// created.
func NewClient(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("genai: api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, httpClient: httpClient}, nil
}

// GenerateContent posts payload to the model's generateContent endpoint and
// decodes the response. Non-success statuses surface as upstream errors
// carrying the status code and a truncated body.
func (c *Client) GenerateContent(ctx context.Context, model string, payload any) (*GenerateContentResponse, error) {
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("genai: marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("genai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.Upstreamf("gemini request failed for model %q: %v", model, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domain.Upstreamf("gemini status %d for model %q: %s", resp.StatusCode, model, TruncatedBody(resp.Body))
	}

	var out GenerateContentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, domain.Upstreamf("decode gemini response for model %q: %v", model, err)
	}
	return &out, nil
}

// TruncatedBody drains up to maxErrorBodyLen bytes of an error response for
// diagnostics.
func TruncatedBody(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxErrorBodyLen))
	return strings.TrimSpace(string(data))
}
