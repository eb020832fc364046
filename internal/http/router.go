package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"imageforge/internal/http/handlers"
	"imageforge/internal/middleware"
)

// NewRouter wires the boundary surface consumed by the job manager.
func NewRouter(app *handlers.App, metricsHandler stdhttp.Handler) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer, middleware.Logger(app.Logger))

	r.Get("/v1/healthz", app.Health)

	r.Post("/generate", app.Generate)
	r.Post("/edit", app.Edit)

	r.Route("/job/{id}", func(r chi.Router) {
		r.Get("/", app.JobStatus)
		r.Delete("/", app.CancelJob)
	})

	r.Get("/models", app.Models)

	if metricsHandler != nil {
		r.Method(stdhttp.MethodGet, "/metrics", metricsHandler)
	}

	return r
}
