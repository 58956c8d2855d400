// Package httpapi serves a read-only JSON view of the task tracker.
package httpapi

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/kazz187/taskdesk/internal/config"
	"github.com/kazz187/taskdesk/internal/stats"
	"github.com/kazz187/taskdesk/internal/task"
	"github.com/kazz187/taskdesk/pkg/cerr"
	"github.com/kazz187/taskdesk/pkg/clog"
)

// Source is what the API reads from. tracker.Service implements it.
type Source interface {
	BuildReport(ctx context.Context) (stats.Report, error)
	AllTasks(ctx context.Context) ([]*task.Task, error)
}

type Server struct {
	server *http.Server
	env    *config.HTTPEnv
	source Source
}

func NewServer(env *config.HTTPEnv, source Source) *Server {
	s := &Server{env: env, source: source}
	s.server = &http.Server{Addr: env.Addr(), Handler: s.Handler()}
	return s
}

type TasksResponse struct {
	Tasks []*task.Task `json:"tasks"`
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Route("/api", func(r chi.Router) {
		r.Use(
			clog.SlogChiMiddleware(),
			cerr.NewJSONChiMiddleware(),
			s.apiKeyMiddleware,
		)
		r.Get("/stats", s.getStats)
		r.Get("/tasks", s.getTasks)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			cerr.SetNewJSONError(r.Context(), cerr.NotFound, "not found", nil)
		})
	})

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r)
}

// Listen binds the configured address. ctx becomes the base context of every
// request served on the returned listener.
func (s *Server) Listen(ctx context.Context) (net.Listener, error) {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.server.BaseContext = func(net.Listener) context.Context { return ctx }
	slog.InfoContext(ctx, "listening", "addr", ln.Addr().String())
	return ln, nil
}

// Serve serves ln until Shutdown is called. It returns http.ErrServerClosed
// after a shutdown, even one that happened before Serve started.
func (s *Server) Serve(ln net.Listener) error {
	return s.server.Serve(ln)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	report, err := s.source.BuildReport(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, report)
}

func (s *Server) getTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tasks, err := s.source.AllTasks(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	assignee := r.URL.Query().Get("assignee")
	out := make([]*task.Task, 0, len(tasks))
	for _, t := range tasks {
		if assignee == "" || t.Assignee == assignee {
			out = append(out, t)
		}
	}
	cerr.SetJSONResponse(ctx, TasksResponse{Tasks: out})
}

// apiKeyMiddleware is a no-op when no key is configured.
func (s *Server) apiKeyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.env.APIKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		apiKey := r.Header.Get("X-API-Key")
		if apiKey == "" {
			apiKey = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		}
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.env.APIKey)) != 1 {
			cerr.SetNewJSONError(r.Context(), cerr.Unauthenticated, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
