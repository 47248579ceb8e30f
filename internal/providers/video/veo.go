package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"briefboard/internal/domain"
	"briefboard/internal/providers/genai"
	"briefboard/internal/storage"
)

// Options controls how the Veo client is configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Files      *storage.FileStore
}

// Client drives Veo long-running video generation: start, poll, bounded
// wait, and staging of the finished media.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	files      *storage.FileStore
}

// Operation is a provider-returned long-running operation snapshot. Name
// and Done are the only fields interpreted locally; everything else is
// passed through verbatim in Raw.
type Operation struct {
	Name string          `json:"name"`
	Done bool            `json:"done"`
	Raw  json.RawMessage `json:"-"`
}

// MarshalJSON emits the verbatim provider payload when present so callers
// see the full operation, not just the locally interpreted fields.
func (o *Operation) MarshalJSON() ([]byte, error) {
	if len(o.Raw) > 0 {
		return o.Raw, nil
	}
	type plain Operation
	return json.Marshal((*plain)(o))
}

// ReferenceImage conditions a generation on an existing image.
type ReferenceImage struct {
	Image         InlineImage `json:"image"`
	ReferenceType string      `json:"referenceType"`
}

type InlineImage struct {
	BytesBase64Encoded string `json:"bytesBase64Encoded"`
	MimeType           string `json:"mimeType"`
}

const (
	RoleAsset = "ASSET"
	RoleStyle = "STYLE"

	defaultModel   = "veo-3.1-generate-preview"
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultTimeout = 60 * time.Second

	// Anything smaller than this is an error or placeholder body that the
	// provider returned with a 200 status, not a video.
	minMediaBytes = 1024
)

func NewClient(opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("video: api key is required")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := opts.Model
	if model == "" {
		model = defaultModel
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		files:      opts.Files,
	}, nil
}

type startRequest struct {
	Instances []startInstance `json:"instances"`
}

type startInstance struct {
	Prompt          string           `json:"prompt"`
	ReferenceImages []ReferenceImage `json:"referenceImages"`
}

// Start begins a long-running, image-conditioned generation. The endpoint
// requires at least one reference image.
func (c *Client) Start(ctx context.Context, prompt string, refs []ReferenceImage) (*Operation, error) {
	if len(refs) == 0 {
		return nil, domain.Validationf("veo requires at least one reference image")
	}
	endpoint := fmt.Sprintf("%s/models/%s:predictLongRunning", c.baseURL, url.PathEscape(c.model))
	body, err := json.Marshal(startRequest{Instances: []startInstance{{Prompt: prompt, ReferenceImages: refs}}})
	if err != nil {
		return nil, fmt.Errorf("video: marshal start request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("video: create start request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	op, err := c.doOperation(req, "start")
	if err != nil {
		return nil, err
	}
	if op.Name == "" {
		return nil, domain.Upstreamf("veo start returned no operation name")
	}
	return op, nil
}

// Poll reads the current state of a long-running operation.
func (c *Client) Poll(ctx context.Context, operationName string) (*Operation, error) {
	endpoint := c.baseURL + "/" + strings.TrimLeft(operationName, "/")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("video: create poll request: %w", err)
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	return c.doOperation(req, "poll")
}

func (c *Client) doOperation(req *http.Request, action string) (*Operation, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, domain.Upstreamf("veo %s request failed: %v", action, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, domain.Upstreamf("veo %s status %d for model %q: %s", action, resp.StatusCode, c.model, genai.TruncatedBody(resp.Body))
	}
	raw, err := decodeRaw(resp)
	if err != nil {
		return nil, domain.Upstreamf("decode veo %s response: %v", action, err)
	}
	return raw, nil
}

func decodeRaw(resp *http.Response) (*Operation, error) {
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}
	op := &Operation{Raw: append([]byte(nil), buf.Bytes()...)}
	if err := json.Unmarshal(op.Raw, op); err != nil {
		return nil, err
	}
	return op, nil
}

// AwaitCompletion polls at a fixed interval until the operation reports
// done or the accumulated wait reaches maxWait. Exhausting the budget is a
// soft timeout: the latest snapshot is returned without error. Context
// cancellation aborts the wait; no compensating cancel is sent upstream.
func (c *Client) AwaitCompletion(ctx context.Context, operationName string, interval, maxWait time.Duration) (*Operation, error) {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	var last *Operation
	for waited := time.Duration(0); waited < maxWait; waited += interval {
		op, err := c.Poll(ctx, operationName)
		if err != nil {
			return nil, err
		}
		last = op
		if op.Done {
			return op, nil
		}
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		case <-time.After(interval):
		}
	}
	return last, nil
}
