package prompts

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"briefboard/internal/domain"
)

// Library holds the instruction text prepended to provider prompts. Values
// can be overridden from a YAML file so prompt tuning does not require a
// rebuild; the dynamic sections are always assembled in code.
type Library struct {
	Moodboard     string `yaml:"moodboard"`
	Storyboard    string `yaml:"storyboard"`
	FinalPreamble string `yaml:"final_preamble"`
	VeoPreamble   string `yaml:"veo_preamble"`
}

// Defaults returns the built-in prompt library.
func Defaults() *Library {
	return &Library{
		Moodboard: "Create a single moodboard image: a grid of evocative visual tiles " +
			"capturing palette, texture, lighting, and atmosphere for the concept below. " +
			"No text or captions in the image.",
		Storyboard: "Create a single storyboard image: a grid of sequential cinematic " +
			"frames sketching the key beats of the concept below. " +
			"No text or captions in the image.",
		FinalPreamble: "Create one polished final keyframe image for the concept below.",
		VeoPreamble:   "Create a high-quality cinematic video based on the following production package.",
	}
}

// Load returns Defaults overlaid with any non-empty fields from the YAML
// file at path. An empty path returns the defaults untouched.
func Load(path string) (*Library, error) {
	lib := Defaults()
	if strings.TrimSpace(path) == "" {
		return lib, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("prompts: read %s: %w", path, err)
	}
	var override Library
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("prompts: parse %s: %w", path, err)
	}
	if override.Moodboard != "" {
		lib.Moodboard = override.Moodboard
	}
	if override.Storyboard != "" {
		lib.Storyboard = override.Storyboard
	}
	if override.FinalPreamble != "" {
		lib.FinalPreamble = override.FinalPreamble
	}
	if override.VeoPreamble != "" {
		lib.VeoPreamble = override.VeoPreamble
	}
	return lib, nil
}

// BuildMoodboard assembles the image prompt for a plan's moodboard.
func (l *Library) BuildMoodboard(userPrompt string) string {
	return l.Moodboard + "\n\nCONCEPT:\n" + userPrompt
}

// BuildStoryboard assembles the image prompt for a plan's storyboard.
func (l *Library) BuildStoryboard(userPrompt string) string {
	return l.Storyboard + "\n\nCONCEPT:\n" + userPrompt
}

// FinalImageInputs are the optional prior artifacts folded into the final
// still prompt. Empty fields are omitted.
type FinalImageInputs struct {
	Prompt        string
	Constraints   string
	Hexcodes      string
	Summary       string
	MoodboardURL  string
	StoryboardURL string
}

// BuildFinalImage assembles the final keyframe prompt from whatever
// artifacts the caller supplied.
func (l *Library) BuildFinalImage(in FinalImageInputs) string {
	parts := []string{l.FinalPreamble, "USER PROMPT:\n" + in.Prompt}
	if in.Constraints != "" {
		parts = append(parts, "NEGATIVE CONSTRAINTS:\n"+in.Constraints)
	}
	if in.Hexcodes != "" {
		parts = append(parts, "COLOR PALETTE (HEX):\n"+in.Hexcodes)
	}
	if in.Summary != "" {
		parts = append(parts, "CREATIVE SUMMARY:\n"+in.Summary)
	}
	if in.MoodboardURL != "" {
		parts = append(parts, "MOODBOARD REFERENCE IMAGE URL:\n"+in.MoodboardURL)
	}
	if in.StoryboardURL != "" {
		parts = append(parts, "STORYBOARD REFERENCE IMAGE URL:\n"+in.StoryboardURL)
	}
	parts = append(parts, "Output a single cinematic still that reflects the style, lighting, composition, and tone.")
	return strings.Join(parts, "\n\n")
}

// BuildVeo assembles the video prompt from the full production package.
func (l *Library) BuildVeo(userPrompt, negatives string, palette domain.Palette, summary domain.Summary, moodboardURL, storyboardURL string) string {
	return strings.Join([]string{
		l.VeoPreamble,
		"USER PROMPT:\n" + userPrompt,
		"NEGATIVE CONSTRAINTS:\n" + negatives,
		"COLOR PALETTE (HEX):\n" + formatPalette(palette),
		"CREATIVE SUMMARY:\n" + formatSummary(summary),
		"MOODBOARD REFERENCE IMAGE URL:\n" + moodboardURL,
		"STORYBOARD REFERENCE IMAGE URL:\n" + storyboardURL,
		"Respect the style, pacing, camera language, and tone implied by the references.",
	}, "\n\n")
}

func formatPalette(p domain.Palette) string {
	return fmt.Sprintf("primary: %s\nsecondary: %s\naccent: %s\nbackground: %s",
		strings.Join(p.Primary, ", "),
		strings.Join(p.Secondary, ", "),
		strings.Join(p.Accent, ", "),
		strings.Join(p.Background, ", "))
}

func formatSummary(s domain.Summary) string {
	return fmt.Sprintf("logline: %s\nstyle: %s\nkeywords: %s",
		s.Logline, s.Style, strings.Join(s.Keywords, ", "))
}
