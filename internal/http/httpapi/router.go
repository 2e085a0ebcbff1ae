package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"charforge-server/internal/http/handlers"
	"charforge-server/internal/middleware"
)

// Options tunes router-level middleware.
type Options struct {
	RateLimitPerMin int
	StaticPath      string // serves stored artifacts under /static when set
}

// NewRouter builds the HTTP surface around the handler container.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Owner,
	)
	if opts.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(opts.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/options", app.Options)
	r.Post("/v1/validate", app.Validate)

	r.Route("/v1/jobs", func(r chi.Router) {
		r.Get("/", app.ListJobs)
		r.Get("/export", app.ExportJobs)
		r.Get("/{job_id}", app.JobStatus)
		r.Post("/{job_id}/retry", app.RetryJob)
	})
	r.Post("/v1/generate", app.Generate)

	r.Route("/v1/admin", func(r chi.Router) {
		r.Delete("/jobs/{job_id}", app.DeleteJob)
		r.Post("/cleanup", app.Cleanup)
		r.Get("/stats", app.Stats)
	})

	if opts.StaticPath != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticPath)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
