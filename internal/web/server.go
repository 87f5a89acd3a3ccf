// Package web serves the word feed as a JSON API for browser clients.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"wordfeed/internal/feed"
	"wordfeed/internal/repository"
	"wordfeed/internal/service"
)

// requestTimeout bounds the storage work of one request
const requestTimeout = 15 * time.Second

// CompletionsFunc returns the completion set of a browser profile
type CompletionsFunc func(profile string) repository.CompletionStore

// Deps groups what the HTTP view drives
type Deps struct {
	Feed        *feed.Controller
	Sessions    *feed.Registry
	Catalog     *service.CatalogService
	Completions CompletionsFunc
}

// APIResponse is the envelope of every JSON reply
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// Server routes API requests to the feed controller
type Server struct {
	deps    Deps
	cookies *cookieJar
	router  *mux.Router
	logger  *zap.Logger
}

// NewServer creates the HTTP view. secret signs the cookies.
func NewServer(deps Deps, secret []byte, logger *zap.Logger) *Server {
	s := &Server{
		deps:    deps,
		cookies: newCookieJar(secret),
		router:  mux.NewRouter(),
		logger:  logger,
	}
	s.routes()
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api.HandleFunc("/words", s.handleWords).Methods(http.MethodGet)
	api.HandleFunc("/words/more", s.handleMore).Methods(http.MethodPost)
	api.HandleFunc("/words/reset", s.handleReset).Methods(http.MethodPost)
	api.HandleFunc("/words/{id:[0-9]+}/complete", s.handleComplete).Methods(http.MethodPost)

	api.HandleFunc("/catalog/categories", s.handleCategories).Methods(http.MethodGet)
	api.HandleFunc("/catalog/days", s.handleDays).Methods(http.MethodGet)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]string{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		},
	})
}

func requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}

func writeJSON(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{Success: false, Error: msg})
}
