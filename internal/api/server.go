package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dgallion1/docintel/internal/config"
	"github.com/dgallion1/docintel/internal/llm"
	"github.com/dgallion1/docintel/internal/pipeline"
	"github.com/dgallion1/docintel/internal/service"
)

// Server is the HTTP API server for docintel.
type Server struct {
	router       chi.Router
	orchestrator *pipeline.Orchestrator
	svc          *service.Service
	completer    llm.Completer
	stats        *llm.LLMStats
	log          *slog.Logger
	cfg          config.Config
}

// NewServer creates and configures the HTTP server. completer and stats may
// be nil when no completion provider is configured.
func NewServer(orch *pipeline.Orchestrator, svc *service.Service, completer llm.Completer, stats *llm.LLMStats, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		orchestrator: orch,
		svc:          svc,
		completer:    completer,
		stats:        stats,
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
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/documents/upload", s.handleUpload)
		r.Post("/documents/batch", s.handleBatchUpload)
		r.Get("/jobs/{jobID}", s.handleJobStatus)

		r.Get("/documents", s.handleListDocuments)
		r.Route("/documents/{docID}", func(r chi.Router) {
			r.Get("/", s.handleGetDocument)
			r.Delete("/", s.handleDeleteDocument)
			r.Get("/outline", s.handleOutline)
			r.Post("/search", s.handleSearch)
			r.Post("/summarize", s.handleSummarize)
			r.Post("/qa", s.handleQA)
			r.Get("/related/{segmentID}", s.handleRelated)
		})

		r.Post("/persona/analyze", s.handleAnalyze)
		r.Get("/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"queue_depth": s.orchestrator.QueueDepth(),
		"ai_enabled":  s.completer != nil,
	})
}
