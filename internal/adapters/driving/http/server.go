package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/edutech/edutech-core/internal/core/ports/driven"
	"github.com/edutech/edutech-core/internal/core/ports/driving"
	"github.com/edutech/edutech-core/internal/worker"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// WorkerHealth reports the state of an in-process conversion worker
type WorkerHealth interface {
	Health(ctx context.Context) worker.Health
}

// Services bundles the driving ports the API exposes
type Services struct {
	Auth       driving.AuthService
	Users      driving.UserService
	Documents  driving.DocumentService
	Conversion driving.ConversionService
	Lessons    driving.LessonService
	Categories driving.CategoryService
	Tasks      driving.TaskService
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string
	logger     *slog.Logger

	maxUploadBytes int64

	authService       driving.AuthService
	userService       driving.UserService
	docService        driving.DocumentService
	conversionService driving.ConversionService
	lessonService     driving.LessonService
	categoryService   driving.CategoryService
	taskService       driving.TaskService

	// Infrastructure
	taskQueue   driven.TaskQueue // nil when background conversion is disabled
	db          Pinger           // PostgreSQL health check
	redisClient Pinger           // Redis health check (optional)
	worker      WorkerHealth     // nil when this process runs no worker
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	MaxUploadBytes int64
	CORSOrigins    []string
	Logger         *slog.Logger
	Worker         WorkerHealth // Reported by /ready when set
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8080,
		Version:        "dev",
		MaxUploadBytes: 20 << 20,
		CORSOrigins:    []string{"*"},
	}
}

// NewServer creates a new HTTP server.
// taskQueue and redisClient may be nil.
func NewServer(cfg Config, svc Services, taskQueue driven.TaskQueue, db Pinger, redisClient Pinger) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = DefaultConfig().MaxUploadBytes
	}

	s := &Server{
		router:            http.NewServeMux(),
		version:           cfg.Version,
		logger:            logger,
		maxUploadBytes:    cfg.MaxUploadBytes,
		authService:       svc.Auth,
		userService:       svc.Users,
		docService:        svc.Documents,
		conversionService: svc.Conversion,
		lessonService:     svc.Lessons,
		categoryService:   svc.Categories,
		taskService:       svc.Tasks,
		taskQueue:         taskQueue,
		db:                db,
		redisClient:       redisClient,
		worker:            cfg.Worker,
	}

	s.setupRoutes()

	var handler http.Handler = s.router
	handler = NewCORSMiddleware(cfg.CORSOrigins).Handler(handler)
	handler = NewLoggingMiddleware(logger).Handler(handler)
	handler = NewRecoveryMiddleware(logger).Handler(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

// Handler returns the fully wrapped root handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)
	authed := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.Authenticate(h)
	}

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)
	s.router.HandleFunc("GET /swagger/doc.json", s.handleSwaggerDoc)

	// Auth endpoints (public)
	s.router.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	// Auth endpoints (authenticated)
	s.router.Handle("POST /api/v1/auth/logout", authed(s.handleLogout))
	s.router.Handle("POST /api/v1/auth/logout-all", authed(s.handleLogoutAll))
	s.router.Handle("GET /api/v1/auth/sessions", authed(s.handleListSessions))
	s.router.Handle("DELETE /api/v1/auth/sessions/{id}", authed(s.handleRevokeSession))
	s.router.Handle("GET /api/v1/me", authed(s.handleGetMe))

	// Document endpoints
	// upload/{lessonId} and lesson/{lessonId} overlap {id}/{action}, so the
	// two-segment routes share a dispatcher.
	s.router.Handle("GET /api/v1/documents/{id}", authed(s.handleGetDocument))
	s.router.Handle("DELETE /api/v1/documents/{id}", authed(s.handleDeleteDocument))
	s.router.Handle("GET /api/v1/documents/{id}/{action}", authed(s.routeDocumentGet))
	s.router.Handle("POST /api/v1/documents/{id}/{action}", authed(s.routeDocumentPost))
	s.router.Handle("DELETE /api/v1/documents/{id}/conversion-error", authed(s.handleClearConversionError))

	// Background conversion tasks
	s.router.Handle("GET /api/v1/tasks", authed(s.handleListTasks))
	s.router.Handle("GET /api/v1/tasks/{id}", authed(s.handleGetTask))
	s.router.Handle("DELETE /api/v1/tasks/{id}", authed(s.handleCancelTask))

	// Lessons and categories
	s.router.Handle("POST /api/v1/lessons", authed(s.handleCreateLesson))
	s.router.Handle("GET /api/v1/lessons/{id}", authed(s.handleGetLesson))
	s.router.Handle("POST /api/v1/lessons/{id}/convert", authed(s.handleConvertLesson))
	s.router.Handle("GET /api/v1/categories", authed(s.handleListCategories))
	s.router.Handle("POST /api/v1/categories", authed(s.handleCreateCategory))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
