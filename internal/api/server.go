package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/docfold/docfold/internal/config"
	"github.com/docfold/docfold/internal/pipeline"
	"github.com/docfold/docfold/internal/stats"
)

// Server is the HTTP API server for docfold.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	stats        *stats.PhaseStats
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(orch *pipeline.Orchestrator, ps *stats.PhaseStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		stats:        ps,
		log:          log,
		cfg:          cfg,
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

		r.Post("/api/collections", s.handleCreateCollection)
		r.Get("/api/collections", s.handleListCollections)
		r.Get("/api/collections/{collID}", s.handleGetCollection)
		r.Delete("/api/collections/{collID}", s.handleDeleteCollection)

		r.Get("/api/collections/{collID}/documents", s.handleListDocuments)
		r.Post("/api/collections/{collID}/documents", s.handleAppendDocument)
		r.Get("/api/collections/{collID}/documents/{index}", s.handleGetDocument)
		r.Get("/api/collections/{collID}/stream", s.handleGetStream)

		r.Get("/api/unfold/{jobID}/status", s.handleUnfoldStatus)
		r.Get("/api/stats/pipeline", s.handlePipelineStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
