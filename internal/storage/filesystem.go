package storage

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"briefboard/internal/domain"
)

// PublicPrefix is the URL namespace under which generated assets are served.
const PublicPrefix = "/static/generated"

// FileStore owns the managed output directory for generated assets. Files
// are written with collision-resistant names and exposed under PublicPrefix.
type FileStore struct {
	baseDir string
}

// NewFileStore initializes a FileStore rooted at baseDir, creating it if
// necessary. The directory is resolved to an absolute path so containment
// checks are stable regardless of the working directory.
func NewFileStore(baseDir string) (*FileStore, error) {
	baseDir = strings.TrimSpace(baseDir)
	if baseDir == "" {
		return nil, errors.New("storage: base dir is required")
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve base dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base dir: %w", err)
	}
	return &FileStore{baseDir: abs}, nil
}

// BaseDir returns the absolute managed output directory.
func (s *FileStore) BaseDir() string {
	return s.baseDir
}

// Save writes data under a generated name "<prefix>-<uuid>.<ext>" and
// returns the public static URL of the new file.
func (s *FileStore) Save(prefix, ext string, data []byte) (string, error) {
	prefix = sanitizePrefix(prefix)
	ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
	if ext == "" {
		ext = "bin"
	}
	name := fmt.Sprintf("%s-%s.%s", prefix, strings.ReplaceAll(uuid.NewString(), "-", ""), ext)
	if err := os.WriteFile(filepath.Join(s.baseDir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("storage: write asset: %w", err)
	}
	return path.Join(PublicPrefix, name), nil
}

// Resolve maps a public static URL back to an absolute path inside the
// managed directory. URLs outside PublicPrefix, or whose cleaned path would
// escape the storage root, are rejected before any filesystem access.
func (s *FileStore) Resolve(publicURL string) (string, error) {
	trimmed := strings.TrimSpace(publicURL)
	if !strings.HasPrefix(trimmed, PublicPrefix+"/") {
		return "", domain.Validationf("url %q is not under %s/", publicURL, PublicPrefix)
	}
	rel := strings.TrimPrefix(trimmed, PublicPrefix+"/")
	rel = filepath.FromSlash(rel)
	full := filepath.Join(s.baseDir, rel)
	abs, err := filepath.Abs(full)
	if err != nil {
		return "", domain.Validationf("cannot resolve %q", publicURL)
	}
	if abs != s.baseDir && !strings.HasPrefix(abs, s.baseDir+string(filepath.Separator)) {
		return "", domain.Validationf("url %q escapes the static root", publicURL)
	}
	return abs, nil
}

func sanitizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "asset"
	}
	var b strings.Builder
	for _, r := range prefix {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "asset"
	}
	return b.String()
}
