package handlers

import (
	"net/http"

	"briefboard/internal/domain"
	"briefboard/internal/store"
)

type boardRequest struct {
	PlanID string `json:"plan_id"`
}

type boardKind struct {
	name        string
	description string
	cached      func(*domain.Plan) *domain.AssetRef
	prompt      func(*App, string) string
	update      func(*domain.AssetRef) store.PlanUpdate
}

var moodboardKind = boardKind{
	name:        "moodboard",
	description: "Moodboard image",
	cached:      func(p *domain.Plan) *domain.AssetRef { return p.Moodboard },
	prompt:      func(a *App, userPrompt string) string { return a.Prompts.BuildMoodboard(userPrompt) },
	update:      func(ref *domain.AssetRef) store.PlanUpdate { return store.PlanUpdate{Moodboard: ref} },
}

var storyboardKind = boardKind{
	name:        "storyboard",
	description: "Storyboard image",
	cached:      func(p *domain.Plan) *domain.AssetRef { return p.Storyboard },
	prompt:      func(a *App, userPrompt string) string { return a.Prompts.BuildStoryboard(userPrompt) },
	update:      func(ref *domain.AssetRef) store.PlanUpdate { return store.PlanUpdate{Storyboard: ref} },
}

func (a *App) Moodboard(w http.ResponseWriter, r *http.Request) {
	a.board(w, r, moodboardKind)
}

func (a *App) Storyboard(w http.ResponseWriter, r *http.Request) {
	a.board(w, r, storyboardKind)
}

// board serves a plan's moodboard or storyboard. The plan acts as a cache:
// a reference that was generated before is returned as-is without another
// provider call, making the operation idempotent per plan.
func (a *App) board(w http.ResponseWriter, r *http.Request, kind boardKind) {
	var req boardRequest
	if err := decode(r, &req); err != nil {
		a.error(w, r, err)
		return
	}
	plan, err := a.Store.Get(req.PlanID)
	if err != nil {
		a.error(w, r, err)
		return
	}

	if ref := kind.cached(plan); ref != nil {
		a.json(w, http.StatusOK, map[string]any{
			"plan_id": plan.ID,
			kind.name: ref,
			"cached":  true,
		})
		return
	}

	ref, err := a.Images.GenerateAndStore(r.Context(), kind.prompt(a, plan.Prompt), kind.name, kind.description)
	if err != nil {
		a.error(w, r, err)
		return
	}
	plan, err = a.Store.Update(plan.ID, kind.update(ref))
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"plan_id": plan.ID,
		kind.name: ref,
		"cached":  false,
	})
}

func planBoards(moodboard, storyboard *domain.AssetRef) store.PlanUpdate {
	return store.PlanUpdate{Moodboard: moodboard, Storyboard: storyboard}
}
