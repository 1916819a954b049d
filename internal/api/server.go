package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/plangest/internal/config"
	"github.com/dgallion1/plangest/internal/pipeline"
	"github.com/dgallion1/plangest/internal/plan"
)

// Server is the HTTP API server for plangest.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	log          *slog.Logger
	cfg          config.Config
	opts         plan.Options
}

// NewServer creates and configures the HTTP server. opts are the extraction
// defaults that uploads may override per request.
func NewServer(orch *pipeline.Orchestrator, log *slog.Logger, cfg config.Config, opts plan.Options) *Server {
	s := &Server{
		orchestrator: orch,
		log:          log,
		cfg:          cfg,
		opts:         opts,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(s.cfg.APIKey, s.log))

		r.Post("/api/plans", s.handleUpload)
		r.Post("/api/plans/batch", s.handleBatchUpload)
		r.Get("/api/plans/jobs/{jobID}", s.handleJobStatus)
		r.Post("/api/plans/prune", s.handlePrune)

		r.Get("/api/plans", s.handleCatalog)
		r.Route("/api/plans/{slug}", func(r chi.Router) {
			r.Get("/", s.handleGetPlan)
			r.Delete("/", s.handleDeletePlan)
			r.Get("/materias", s.handleGetCourses)
			r.Get("/report", s.handleReportHTML)
			r.Get("/report.md", s.handleReportMarkdown)
			r.Get("/docx", s.handleReportDOCX)
		})

		r.Get("/api/stats/extract", s.handleExtractStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
