package storage

import (
	"errors"
	"os"
	"strings"
	"testing"

	"briefboard/internal/domain"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return s
}

func TestSaveReturnsPublicURL(t *testing.T) {
	s := newTestStore(t)
	url, err := s.Save("moodboard", "png", []byte("payload"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(url, PublicPrefix+"/moodboard-") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected public url %q", url)
	}
	abs, err := s.Resolve(url)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "payload" {
		t.Fatalf("unexpected file content %q", data)
	}
}

func TestSaveNamesAreUnique(t *testing.T) {
	s := newTestStore(t)
	a, err := s.Save("img", "png", []byte("a"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	b, err := s.Save("img", "png", []byte("b"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if a == b {
		t.Fatalf("expected distinct names, got %q twice", a)
	}
}

func TestResolveRejectsForeignPrefix(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Resolve("/uploads/file.png"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestResolveRejectsTraversal(t *testing.T) {
	s := newTestStore(t)
	for _, url := range []string{
		PublicPrefix + "/../../etc/passwd",
		PublicPrefix + "/../secret.png",
		PublicPrefix + "/a/../../b.png",
	} {
		if _, err := s.Resolve(url); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected validation error for %q, got %v", url, err)
		}
	}
}
