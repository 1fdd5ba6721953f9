package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/rowplan/internal/models"
	"github.com/meltforce/rowplan/internal/storage"
)

// Generator produces a workout plan for a list of periods.
type Generator interface {
	Generate(ctx context.Context, periods []models.TrainingPeriod) (models.WorkoutPlan, error)
	Available(ctx context.Context) bool
}

// GenerationLog lists recent generation metadata.
type GenerationLog interface {
	Recent(ctx context.Context, limit int) ([]storage.Generation, error)
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	gen      Generator
	genLog   GenerationLog
	provider string
	log      *slog.Logger
	router   chi.Router
	now      func() time.Time
}

// New creates a new Server with all routes configured.
func New(gen Generator, provider string, log *slog.Logger) *Server {
	s := &Server{
		gen:      gen,
		provider: provider,
		log:      log,
		router:   chi.NewRouter(),
		now:      time.Now,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	s.router.Post("/api/generate-workouts", s.handleGenerateWorkouts)
	s.router.Post("/api/export/csv", s.handleExportCSV)
	s.router.Get("/api/intensities", s.handleIntensities)
	s.router.Get("/api/generations", s.handleGenerations)
	s.router.Get("/api/health", s.handleHealth)
}

// SetGenerationLog enables GET /api/generations.
func (s *Server) SetGenerationLog(l GenerationLog) {
	s.genLog = l
}

// MountMCP serves an MCP transport handler at /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Handle("/mcp", h)
}

// SetFrontend mounts the built SPA filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		// Try to serve the exact file first
		f, err := webFS.Open(r.URL.Path[1:]) // strip leading /
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		// Fallback to index.html for SPA routing
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}

// SetDevProxy forwards every unmatched route to the frontend dev server.
func (s *Server) SetDevProxy(target *url.URL) {
	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		s.log.Warn("dev asset proxy", "target", target.String(), "path", r.URL.Path, "error", err)
		w.WriteHeader(http.StatusBadGateway)
	}
	s.router.NotFound(proxy.ServeHTTP)
}
