// ABOUTME: HTTP server wiring routes, middleware, and collaborators for the blog API
// ABOUTME: Composes bearer-token auth and admin gating around resource handlers

package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/blob"
	"github.com/inkpost/inkpost/internal/store"
)

// Server holds the HTTP handlers and their collaborators.
type Server struct {
	store     store.Store
	authSvc   *auth.Service
	blobs     blob.Store
	maxUpload int64
	logger    *slog.Logger
}

// Options configures a Server.
type Options struct {
	Store         store.Store
	AuthService   *auth.Service
	Blobs         blob.Store
	MaxUploadSize int64
	Logger        *slog.Logger
}

// NewServer creates the API server.
func NewServer(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:     opts.Store,
		authSvc:   opts.AuthService,
		blobs:     opts.Blobs,
		maxUpload: opts.MaxUploadSize,
		logger:    logger.With("component", "api"),
	}
}

// Handler returns the routed HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	verifier := s.authSvc.Verifier()
	withAuth := auth.RequireAuth(verifier)
	withAdmin := func(h http.HandlerFunc) http.Handler {
		return withAuth(auth.RequireAdmin(s.store)(h))
	}

	mux.HandleFunc("GET /api/healthz", s.handleHealthz)

	mux.HandleFunc("POST /api/admin/signup", s.handleSignup)
	mux.HandleFunc("POST /api/admin/login", s.handleLogin)

	mux.HandleFunc("GET /api/posts", s.handleListPosts)
	mux.HandleFunc("GET /api/posts/{postId}", s.handleGetPost)
	mux.Handle("POST /api/posts", withAdmin(s.handleCreatePost))
	mux.Handle("PUT /api/posts/{postId}", withAdmin(s.handleUpdatePost))
	mux.Handle("PATCH /api/posts/{postId}", withAdmin(s.handleTogglePublished))
	mux.Handle("DELETE /api/posts/{postId}", withAdmin(s.handleDeletePost))

	mux.Handle("POST /api/posts/{postId}/comments", withAuth(http.HandlerFunc(s.handleCreateComment)))
	mux.Handle("DELETE /api/comments/{commentId}", withAdmin(s.handleDeleteComment))

	// Unknown routes get the JSON envelope, not the default text 404
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.sendErrors(w, http.StatusNotFound, fieldError("Not found"))
	})

	return s.logRequests(mux)
}

// handleHealthz reports liveness; it deliberately does not touch the store.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// logRequests logs one line per request with method, path, status, and duration.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
