package video

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"briefboard/internal/domain"
	"briefboard/internal/providers/genai"
)

// DownloadMedia fetches generated video bytes and stages them under the
// managed output directory, returning the public static path. The URL is
// normalized first; then an unauthenticated fetch is attempted (some URLs
// are pre-signed) before retrying with the API key header.
func (c *Client) DownloadMedia(ctx context.Context, remoteURL, prefix string) (string, error) {
	if c.files == nil {
		return "", fmt.Errorf("video: no file store configured")
	}
	normalized, err := normalizeMediaURL(remoteURL)
	if err != nil {
		return "", err
	}

	var attemptErrors []string
	for _, withKey := range []bool{false, true} {
		data, err := c.fetchMedia(ctx, normalized, withKey)
		if err != nil {
			if isRetryableFetch(err) {
				attemptErrors = append(attemptErrors, err.Error())
				continue
			}
			return "", err
		}
		return c.files.Save(prefix, "mp4", data)
	}
	return "", domain.Upstreamf("veo media download failed without and with credentials: %s", strings.Join(attemptErrors, " | "))
}

// fetchMedia performs one download attempt and validates that the payload
// plausibly is a video.
func (c *Client) fetchMedia(ctx context.Context, mediaURL string, withKey bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("video: create download request: %w", err)
	}
	if withKey {
		req.Header.Set("x-goog-api-key", c.apiKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, retryableFetchError{domain.Upstreamf("veo media request failed: %v", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, retryableFetchError{domain.Upstreamf("veo media status %d: %s", resp.StatusCode, genai.TruncatedBody(resp.Body))}
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !strings.HasPrefix(contentType, "video/") && !strings.HasPrefix(contentType, "application/octet-stream") {
		return nil, domain.Upstreamf("veo media has content-type %q, expected video or binary", contentType)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, domain.Upstreamf("read veo media: %v", err)
	}
	if len(data) < minMediaBytes {
		return nil, domain.Upstreamf("veo media payload is implausibly small (%d bytes)", len(data))
	}
	return data, nil
}

// retryableFetchError marks failures worth retrying with credentials:
// transport errors and non-success statuses. Semantic failures (wrong
// content type, undersized body) fail the download outright.
type retryableFetchError struct{ error }

func (e retryableFetchError) Unwrap() error { return e.error }

func isRetryableFetch(err error) bool {
	_, ok := err.(retryableFetchError)
	return ok
}

// normalizeMediaURL shapes a provider media URL for direct download: a
// "/files/" resource gets the ":download" action suffix if missing, and an
// alt=media query parameter is ensured while preserving existing ones.
func normalizeMediaURL(remoteURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(remoteURL))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", domain.Validationf("invalid media url %q", remoteURL)
	}
	if strings.Contains(parsed.Path, "/files/") && !strings.HasSuffix(parsed.Path, ":download") {
		parsed.Path += ":download"
	}
	query := parsed.Query()
	if query.Get("alt") != "media" {
		query.Set("alt", "media")
	}
	parsed.RawQuery = query.Encode()
	return parsed.String(), nil
}
