package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"briefboard/internal/domain"
	"briefboard/internal/prompts"
	"briefboard/internal/providers/video"
	"briefboard/internal/storage"
	"briefboard/internal/store"
)

type stubBundles struct {
	bundle *domain.Bundle
	err    error
	calls  int
}

func (s *stubBundles) GenerateBundle(ctx context.Context, prompt string) (*domain.Bundle, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	b := *s.bundle
	return &b, nil
}

// stubImages stages real bytes through the FileStore so downstream steps
// that read the staged file (reference encoding) work against it.
type stubImages struct {
	files *storage.FileStore
	err   error

	mu      sync.Mutex
	calls   int
	prompts []string
}

func (s *stubImages) GenerateAndStore(ctx context.Context, prompt, prefix, description string) (*domain.AssetRef, error) {
	s.mu.Lock()
	s.calls++
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	url, err := s.files.Save(prefix, "png", []byte("stub image bytes"))
	if err != nil {
		return nil, err
	}
	return &domain.AssetRef{ImageURL: url, Description: description}, nil
}

func (s *stubImages) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func sampleBundle() *domain.Bundle {
	return &domain.Bundle{
		Negatives: []string{"blurry", "low quality"},
		Palette: domain.Palette{
			Primary:    []string{"#FF6B6B"},
			Secondary:  []string{"#1E1E1E"},
			Accent:     []string{"#00D4FF"},
			Background: []string{"#0A0A0A"},
		},
		Summary: domain.Summary{
			Logline:  "A quiet heist at dawn",
			Style:    "neo-noir",
			Keywords: []string{"fog", "neon", "silhouette"},
		},
	}
}

// newTestApp wires an App against stub providers. When videoHandler is
// non-nil a Veo client is built against a local test server.
func newTestApp(t *testing.T, videoHandler http.HandlerFunc) (*App, *stubBundles, *stubImages) {
	t.Helper()
	files, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	var vc *video.Client
	if videoHandler != nil {
		srv := httptest.NewServer(videoHandler)
		t.Cleanup(srv.Close)
		vc, err = video.NewClient(video.Options{APIKey: "test-key", BaseURL: srv.URL, Files: files})
		if err != nil {
			t.Fatalf("video.NewClient: %v", err)
		}
	}

	bundles := &stubBundles{bundle: sampleBundle()}
	images := &stubImages{files: files}
	app := &App{
		Store:   store.NewMemory(),
		Bundles: bundles,
		Images:  images,
		Video:   vc,
		Files:   files,
		Prompts: prompts.Defaults(),
		Logger:  zerolog.Nop(),
	}
	return app, bundles, images
}
