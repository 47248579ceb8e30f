package domain

import "time"

// Plan is a server-side record keyed by an opaque id. It holds the original
// prompt, the creative bundle derived from it, and cached references to
// generated board images. Plans live for the lifetime of the process.
type Plan struct {
	ID         string    `json:"plan_id"`
	Prompt     string    `json:"prompt"`
	Bundle     Bundle    `json:"bundle"`
	Moodboard  *AssetRef `json:"moodboard,omitempty"`
	Storyboard *AssetRef `json:"storyboard,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Bundle is the structured result of text generation for a prompt.
type Bundle struct {
	Negatives []string `json:"negatives"`
	Palette   Palette  `json:"palette"`
	Summary   Summary  `json:"summary"`
}

// Palette groups hex color codes ("#RRGGBB") by role.
type Palette struct {
	Primary    []string `json:"primary"`
	Secondary  []string `json:"secondary"`
	Accent     []string `json:"accent"`
	Background []string `json:"background"`
}

type Summary struct {
	Logline  string   `json:"logline"`
	Style    string   `json:"style"`
	Keywords []string `json:"keywords"`
}

// AssetRef points at a generated file under the static-serving namespace.
type AssetRef struct {
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
}

// Validate checks that all three top-level bundle fields are present.
// Item counts (8-20 negatives, 5-12 keywords) are constrained by the
// generation instruction only and deliberately not enforced here.
func (b *Bundle) Validate() error {
	if len(b.Negatives) == 0 {
		return Validationf("bundle missing negatives")
	}
	if len(b.Palette.Primary) == 0 && len(b.Palette.Secondary) == 0 &&
		len(b.Palette.Accent) == 0 && len(b.Palette.Background) == 0 {
		return Validationf("bundle missing palette")
	}
	if b.Summary.Logline == "" && b.Summary.Style == "" && len(b.Summary.Keywords) == 0 {
		return Validationf("bundle missing summary")
	}
	return nil
}
