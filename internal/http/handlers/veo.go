package handlers

import (
	"net/http"
	"strings"
	"time"

	"briefboard/internal/domain"
	"briefboard/internal/providers/video"
)

type veoRequest struct {
	Prompt          string `json:"prompt"`
	Wait            bool   `json:"wait"`
	PollIntervalSec int    `json:"poll_interval_sec"`
	MaxWaitSec      int    `json:"max_wait_sec"`
}

type veoInputs struct {
	Negatives  string           `json:"negatives"`
	Hexcodes   domain.Palette   `json:"hexcodes"`
	Summary    domain.Summary   `json:"summary"`
	Moodboard  *domain.AssetRef `json:"moodboard"`
	Storyboard *domain.AssetRef `json:"storyboard"`
}

type veoResult struct {
	Prompt    string           `json:"prompt"`
	Operation *video.Operation `json:"operation"`
	VideoURL  string           `json:"video_url,omitempty"`
	LocalURL  string           `json:"local_url,omitempty"`
	Inputs    veoInputs        `json:"inputs"`
}

// Veo runs the combined pipeline: creative bundle, concurrent boards, an
// image-conditioned long-running video generation, and an optional bounded
// wait for completion. When the operation finished and yielded a media URL
// the video is staged locally; a staging failure at that point fails the
// whole pipeline rather than degrading silently. When the operation is
// still running, or produced no URL, staging is skipped.
func (a *App) Veo(w http.ResponseWriter, r *http.Request) {
	var req veoRequest
	if err := decode(r, &req); err != nil {
		a.error(w, r, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		a.error(w, r, domain.Validationf("prompt is required"))
		return
	}
	if req.PollIntervalSec <= 0 {
		req.PollIntervalSec = 10
	}
	if req.MaxWaitSec <= 0 {
		req.MaxWaitSec = 180
	}

	bnd, err := a.Bundles.GenerateBundle(r.Context(), req.Prompt)
	if err != nil {
		a.error(w, r, err)
		return
	}
	if err := bnd.Validate(); err != nil {
		a.error(w, r, err)
		return
	}
	negatives := strings.Join(bnd.Negatives, ", ")

	moodboard, storyboard, err := a.generateBoards(r.Context(), req.Prompt)
	if err != nil {
		a.error(w, r, err)
		return
	}

	veoPrompt := a.Prompts.BuildVeo(req.Prompt, negatives, bnd.Palette, bnd.Summary, moodboard.ImageURL, storyboard.ImageURL)

	moodboardRef, err := video.EncodeReference(a.Files, moodboard.ImageURL, "asset")
	if err != nil {
		a.error(w, r, err)
		return
	}
	storyboardRef, err := video.EncodeReference(a.Files, storyboard.ImageURL, "style")
	if err != nil {
		a.error(w, r, err)
		return
	}

	op, err := a.Video.Start(r.Context(), veoPrompt, []video.ReferenceImage{*moodboardRef, *storyboardRef})
	if err != nil {
		a.error(w, r, err)
		return
	}

	latest := op
	if req.Wait {
		interval := time.Duration(req.PollIntervalSec) * time.Second
		maxWait := time.Duration(req.MaxWaitSec) * time.Second
		latest, err = a.Video.AwaitCompletion(r.Context(), op.Name, interval, maxWait)
		if err != nil {
			a.error(w, r, err)
			return
		}
		if latest == nil {
			latest = op
		}
	}

	videoURL := video.ExtractMediaURL(latest)
	localURL := ""
	if latest.Done && videoURL != "" {
		localURL, err = a.Video.DownloadMedia(r.Context(), videoURL, "veo")
		if err != nil {
			a.error(w, r, err)
			return
		}
	}

	a.json(w, http.StatusOK, map[string]any{"veo": veoResult{
		Prompt:    veoPrompt,
		Operation: latest,
		VideoURL:  videoURL,
		LocalURL:  localURL,
		Inputs: veoInputs{
			Negatives:  negatives,
			Hexcodes:   bnd.Palette,
			Summary:    bnd.Summary,
			Moodboard:  moodboard,
			Storyboard: storyboard,
		},
	}})
}
