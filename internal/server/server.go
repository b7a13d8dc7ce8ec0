package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/claude/ironlog/internal/guidance"
	ironmcp "github.com/claude/ironlog/internal/mcp"
	"github.com/claude/ironlog/internal/metrics"
	"github.com/claude/ironlog/internal/models"
	"github.com/claude/ironlog/internal/storage"
	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// DataStore is the persistence the HTTP API needs. *storage.DB satisfies it.
type DataStore interface {
	ironmcp.DataSource
	FindExerciseByName(ctx context.Context, name string) (*models.ExerciseRef, error)
	InsertWorkout(ctx context.Context, rec *models.WorkoutRecord) (string, error)
	DeleteWorkout(ctx context.Context, id string) (bool, error)
}

var _ DataStore = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db      DataStore
	gen     guidance.Generator
	metrics *metrics.Manager
	log     *slog.Logger
	apiKey  string
	router  chi.Router
}

// New creates a new Server with all routes configured. gen may be nil when no
// AI backend is configured.
func New(db DataStore, gen guidance.Generator, m *metrics.Manager, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:      db,
		gen:     gen,
		metrics: m,
		log:     log,
		apiKey:  apiKey,
		router:  chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log, s.metrics))
	s.router.Use(CORS)

	// Mutations (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/workouts", s.handleCreateWorkout)
		r.Delete("/api/v1/workouts/{id}", s.handleDeleteWorkout)
		r.Post("/api/v1/ai", s.handleGuidance)
	})

	// Read API (no auth — tsnet handles access)
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/lookup", s.handleLookupExercise)
	s.router.Get("/api/v1/exercises/{id}", s.handleGetExercise)
	s.router.Get("/api/v1/users/{userID}/workouts", s.handleQueryWorkouts)
	s.router.Get("/api/v1/users/{userID}/stats", s.handleProfileStats)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler())
	}
}

// MountMCP serves an MCP server over streamable HTTP at /mcp. The caller's
// user id is taken from the X-User-ID header.
func (s *Server) MountMCP(m *mcpserver.MCPServer) {
	h := mcpserver.NewStreamableHTTPServer(m,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if uid := r.Header.Get("X-User-ID"); uid != "" {
				return ironmcp.WithUserID(ctx, uid)
			}
			return ctx
		}),
	)
	s.router.Handle("/mcp", h)
}
