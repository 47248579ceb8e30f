package handlers

import (
	"context"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"

	"briefboard/internal/domain"
)

type constraintsRequest struct {
	Prompt string `json:"prompt"`
}

type constraintsResponse struct {
	PlanID     string           `json:"plan_id"`
	Negatives  string           `json:"negatives"`
	Palette    domain.Palette   `json:"palette"`
	Summary    domain.Summary   `json:"summary"`
	Moodboard  *domain.AssetRef `json:"moodboard"`
	Storyboard *domain.AssetRef `json:"storyboard"`
}

// GenerateConstraints runs the full planning pipeline: derive the creative
// bundle, persist a plan, generate moodboard and storyboard concurrently,
// and merge the board references back into the plan.
func (a *App) GenerateConstraints(w http.ResponseWriter, r *http.Request) {
	var req constraintsRequest
	if err := decode(r, &req); err != nil {
		a.error(w, r, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		a.error(w, r, domain.Validationf("prompt is required"))
		return
	}

	bnd, err := a.Bundles.GenerateBundle(r.Context(), req.Prompt)
	if err != nil {
		a.error(w, r, err)
		return
	}
	plan := a.Store.Create(req.Prompt, *bnd)

	moodboard, storyboard, err := a.generateBoards(r.Context(), req.Prompt)
	if err != nil {
		a.error(w, r, err)
		return
	}
	plan, err = a.Store.Update(plan.ID, planBoards(moodboard, storyboard))
	if err != nil {
		a.error(w, r, err)
		return
	}

	a.json(w, http.StatusOK, constraintsResponse{
		PlanID:     plan.ID,
		Negatives:  strings.Join(plan.Bundle.Negatives, ", "),
		Palette:    plan.Bundle.Palette,
		Summary:    plan.Bundle.Summary,
		Moodboard:  plan.Moodboard,
		Storyboard: plan.Storyboard,
	})
}

// generateBoards fans out moodboard and storyboard generation and joins
// before returning. The first failure cancels the sibling and surfaces as
// the single aggregate error.
func (a *App) generateBoards(ctx context.Context, prompt string) (moodboard, storyboard *domain.AssetRef, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ref, err := a.Images.GenerateAndStore(ctx, a.Prompts.BuildMoodboard(prompt), "moodboard", "Moodboard image")
		if err != nil {
			return err
		}
		moodboard = ref
		return nil
	})
	g.Go(func() error {
		ref, err := a.Images.GenerateAndStore(ctx, a.Prompts.BuildStoryboard(prompt), "storyboard", "Storyboard image")
		if err != nil {
			return err
		}
		storyboard = ref
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return moodboard, storyboard, nil
}
