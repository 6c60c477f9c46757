package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/staffing-console/internal/config"
	"github.com/jonathan/staffing-console/internal/db"
	"github.com/jonathan/staffing-console/internal/pipeline"
	"github.com/jonathan/staffing-console/internal/server/middleware"
	"github.com/jonathan/staffing-console/internal/types"
)

// Store is the persistence surface the handlers need. Implemented by
// *db.DB; faked in tests.
type Store interface {
	CreateClient(ctx context.Context, client *types.PipelineClient) error
	GetClient(ctx context.Context, id uuid.UUID) (*types.PipelineClient, error)
	ListClients(ctx context.Context) ([]types.PipelineClient, error)
	CommitTransition(ctx context.Context, next *types.PipelineClient, prevStatus types.Stage, prevBlocked bool) error
	UpdateBlocked(ctx context.Context, next *types.PipelineClient, prevBlocked bool) error
	UpdateAssignment(ctx context.Context, next *types.PipelineClient) error
	InsertActionRecord(ctx context.Context, record *types.ActionRecord) error
	ListActionRecords(ctx context.Context, clientID uuid.UUID) ([]types.ActionRecord, error)
	Close()
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	store      Store
	engine     *pipeline.Engine
	jwtService *JWTService
}

// Config holds server configuration
type Config struct {
	Port        int
	DatabaseURL string
	Policy      pipeline.Policy
	// MatrixPath optionally replaces the built-in permission matrix.
	MatrixPath string
}

// New creates a server backed by PostgreSQL.
func New(cfg Config) (*Server, error) {
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.Migrate(context.Background()); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	opts := []pipeline.Option{pipeline.WithPolicy(cfg.Policy)}
	if cfg.MatrixPath != "" {
		matrix, err := pipeline.LoadMatrix(cfg.MatrixPath)
		if err != nil {
			database.Close()
			return nil, err
		}
		opts = append(opts, pipeline.WithMatrix(matrix))
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}

	return newServer(cfg.Port, database, pipeline.New(opts...), NewJWTService(jwtConfig)), nil
}

// newServer wires the routes. Split from New so tests can supply a fake
// store.
func newServer(port int, store Store, engine *pipeline.Engine, jwtService *JWTService) *Server {
	s := &Server{
		store:      store,
		engine:     engine,
		jwtService: jwtService,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	authed := http.NewServeMux()
	authed.HandleFunc("POST /clients", s.handleCreateClient)
	authed.HandleFunc("GET /clients/{id}", s.handleGetClient)
	authed.HandleFunc("POST /clients/{id}/transition", s.handleTransition)
	authed.HandleFunc("POST /clients/{id}/block", s.handleBlock)
	authed.HandleFunc("POST /clients/{id}/unblock", s.handleUnblock)
	authed.HandleFunc("POST /clients/{id}/actions", s.handleCompleteAction)
	authed.HandleFunc("GET /clients/{id}/actions", s.handleListActions)
	authed.HandleFunc("POST /clients/{id}/assign-recruiter", s.handleAssignRecruiter)
	authed.HandleFunc("GET /pipeline/summary", s.handleSummary)
	mux.Handle("/", middleware.AuthMiddleware(jwtService.AsTokenValidator())(authed))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.withLogging(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	return s
}

// Start runs the server until interrupted, then shuts down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.store.Close()
	log.Println("Server stopped")
	return nil
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response with an error kind the UI
// can switch on.
func (s *Server) errorResponse(w http.ResponseWriter, status int, kind, message string) {
	s.jsonResponse(w, status, map[string]string{"error": kind, "message": message})
}
