package video

import (
	"encoding/base64"
	"os"
	"strings"

	"briefboard/internal/domain"
	"briefboard/internal/storage"
)

// EncodeReference converts a locally staged image into the inline reference
// payload Veo expects. The URL originates from a caller-controlled string
// threaded through several hops, so containment against the static root is
// validated before any file is read. Unknown roles are coerced to ASSET.
func EncodeReference(files *storage.FileStore, staticImageURL, role string) (*ReferenceImage, error) {
	path, err := files.Resolve(staticImageURL)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, domain.Validationf("reference image %q does not exist", staticImageURL)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.Validationf("reference image %q is unreadable: %v", staticImageURL, err)
	}

	role = strings.ToUpper(strings.TrimSpace(role))
	if role != RoleStyle {
		role = RoleAsset
	}
	return &ReferenceImage{
		Image: InlineImage{
			BytesBase64Encoded: base64.StdEncoding.EncodeToString(data),
			MimeType:           mimeForPath(path),
		},
		ReferenceType: role,
	}, nil
}

// mimeForPath guesses a mime type from the file extension, defaulting to
// PNG for anything unrecognized.
func mimeForPath(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".jpg"), strings.HasSuffix(lower, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(lower, ".webp"):
		return "image/webp"
	default:
		return "image/png"
	}
}
