package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"briefboard/internal/http/handlers"
	"briefboard/internal/middleware"
	"briefboard/internal/storage"
)

// NewRouter mounts the API routes and the static file server over the
// managed asset directory.
func NewRouter(app *handlers.App, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(log),
		middleware.CORS(nil),
	)

	r.Get("/v1/healthz", app.Healthz)

	r.Post("/v1/constraints", app.GenerateConstraints)
	r.Get("/v1/hexcodes", app.Hexcodes)
	r.Get("/v1/summary", app.Summary)
	r.Post("/v1/moodboard", app.Moodboard)
	r.Post("/v1/storyboard", app.Storyboard)
	r.Post("/v1/final-image", app.FinalImage)
	r.Post("/v1/veo", app.Veo)

	fileServer := http.StripPrefix(storage.PublicPrefix+"/", http.FileServer(http.Dir(app.Files.BaseDir())))
	r.Get(storage.PublicPrefix+"/*", fileServer.ServeHTTP)

	return r
}
