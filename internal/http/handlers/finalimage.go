package handlers

import (
	"net/http"
	"strings"

	"briefboard/internal/domain"
	"briefboard/internal/prompts"
)

type finalImageRequest struct {
	Prompt        string `json:"prompt"`
	Constraints   string `json:"constraints"`
	Hexcodes      string `json:"hexcodes"`
	Summary       string `json:"summary"`
	MoodboardURL  string `json:"moodboard_url"`
	StoryboardURL string `json:"storyboard_url"`
}

// FinalImage assembles one polished keyframe from whatever prior artifacts
// the caller chose to supply. All sections except the prompt are optional.
func (a *App) FinalImage(w http.ResponseWriter, r *http.Request) {
	var req finalImageRequest
	if err := decode(r, &req); err != nil {
		a.error(w, r, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		a.error(w, r, domain.Validationf("prompt is required"))
		return
	}

	prompt := a.Prompts.BuildFinalImage(prompts.FinalImageInputs{
		Prompt:        req.Prompt,
		Constraints:   req.Constraints,
		Hexcodes:      req.Hexcodes,
		Summary:       req.Summary,
		MoodboardURL:  req.MoodboardURL,
		StoryboardURL: req.StoryboardURL,
	})
	ref, err := a.Images.GenerateAndStore(r.Context(), prompt, "final-image", "Final generated image")
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"final_image": ref})
}
