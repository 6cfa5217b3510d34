package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/avqlab/mushrelay/internal/config"
	"github.com/avqlab/mushrelay/internal/logger"
	"github.com/avqlab/mushrelay/internal/middleware"
	"github.com/avqlab/mushrelay/internal/services"
)

// RouterParams collects everything the HTTP surface depends on.
type RouterParams struct {
	Config       *config.Config
	Log          *logger.Logger
	Store        Store
	Participants *services.ParticipantService
	Submitter    *services.Submitter
	Collector    *services.CollectService
	Stats        *services.StatsService
	Exports      *services.ExportService
	Auth         *services.AuthService
	JWT          *middleware.Auth
	Commit       string
	BuildTime    string
}

// NewRouter wires the public session/collector endpoints and, when an
// operator account is configured, the admin surface.
func NewRouter(p RouterParams) http.Handler {
	h := &handlers{p: p}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(p.Log),
		middleware.RequestID(p.Log),
		middleware.Logging(p.Log),
		middleware.CORS,
		middleware.SecureHeaders,
		middleware.NoStore,
		middleware.Locale,
	)

	r.Get("/health", h.health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", h.startSession)
		r.Post("/sessions/{id}/results", h.submitResults)

		// Collector endpoints: the receiving side of the network sinks.
		r.Post("/collect", h.collectForm)
		r.Post("/v1/submissions", h.collectJSON)

		if p.Auth != nil && p.Auth.Enabled() {
			r.Post("/admin/login", h.adminLogin)
			r.Group(func(r chi.Router) {
				r.Use(p.JWT.RequireAuth)
				r.Get("/admin/submissions", h.adminSubmissions)
				r.Get("/admin/export", h.adminExport)
				r.Get("/admin/stats", h.adminStats)
			})
		}
	})

	// Serve the webMUSHRA front end when configured.
	if p.Config != nil && p.Config.App.StaticDir != "" {
		fs := http.FileServer(http.Dir(p.Config.App.StaticDir))
		r.Handle("/*", fs)
	}

	return r
}
