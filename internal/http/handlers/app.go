package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"briefboard/internal/domain"
	"briefboard/internal/prompts"
	"briefboard/internal/providers/bundle"
	"briefboard/internal/providers/image"
	"briefboard/internal/providers/video"
	"briefboard/internal/storage"
	"briefboard/internal/store"
)

// App wires the providers, the plan store, and the asset store into the
// HTTP layer. Handlers are methods on App.
type App struct {
	Store   store.Store
	Bundles bundle.Generator
	Images  image.Generator
	Video   *video.Client
	Files   *storage.FileStore
	Prompts *prompts.Library
	Logger  zerolog.Logger
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// error collapses any pipeline failure into a single error reply carrying
// the root-cause message. No partial results are returned on failure.
func (a *App) error(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	} else {
		a.Logger.Warn().Err(err).Str("path", r.URL.Path).Msg("request rejected")
	}
	a.json(w, code, map[string]string{"detail": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// decode reads a JSON request body into v, classifying malformed bodies as
// validation failures.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Validationf("invalid JSON body: %v", err)
	}
	return nil
}
