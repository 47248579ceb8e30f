package handlers

import (
	"net/http"
	"strings"

	"briefboard/internal/domain"
)

// planFromQuery looks up the plan named by the plan_id query parameter.
func (a *App) planFromQuery(r *http.Request) (*domain.Plan, error) {
	id := strings.TrimSpace(r.URL.Query().Get("plan_id"))
	if id == "" {
		return nil, domain.Validationf("plan_id is required")
	}
	return a.Store.Get(id)
}

func (a *App) Hexcodes(w http.ResponseWriter, r *http.Request) {
	plan, err := a.planFromQuery(r)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"plan_id": plan.ID,
		"palette": plan.Bundle.Palette,
	})
}

func (a *App) Summary(w http.ResponseWriter, r *http.Request) {
	plan, err := a.planFromQuery(r)
	if err != nil {
		a.error(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"plan_id": plan.ID,
		"summary": plan.Bundle.Summary,
	})
}
