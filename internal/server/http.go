package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/auth"
	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
	httperrors "github.com/gokatarajesh/trivia-api/pkg/http/errors"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the collaborators the HTTP server routes to. Feed, Auth
// and Pingers are optional.
type Dependencies struct {
	Trivia  *trivia.HTTPHandlers
	Feed    http.HandlerFunc
	Auth    auth.TokenValidator
	Metrics *metrics.Metrics
	Pingers map[string]Pinger
}

// route binds one method on a path pattern to a handler.
type route struct {
	method  string
	pattern string
	handler http.HandlerFunc
	admin   bool
}

func triviaRoutes(h *trivia.HTTPHandlers) []route {
	return []route{
		{method: http.MethodGet, pattern: "/categories", handler: h.ListCategories},
		{method: http.MethodGet, pattern: "/questions", handler: h.ListQuestions},
		{method: http.MethodPost, pattern: "/questions", handler: h.CreateQuestion, admin: true},
		{method: http.MethodDelete, pattern: "/questions/{id}", handler: h.DeleteQuestion, admin: true},
		{method: http.MethodPost, pattern: "/filtered_questions", handler: h.SearchQuestions},
		{method: http.MethodGet, pattern: "/categories/{id}/questions", handler: h.CategoryQuestions},
		{method: http.MethodPost, pattern: "/quizzes", handler: h.PlayQuiz},
	}
}

// NewHandler builds the routed, instrumented and CORS-wrapped API handler.
func NewHandler(cfg *config.App, logger zerolog.Logger, deps Dependencies) http.Handler {
	mux := http.NewServeMux()
	requireAdmin := auth.RequireAdmin(deps.Auth, logger)

	instrument := func(pattern string, h http.Handler) http.Handler {
		if deps.Metrics == nil {
			return h
		}
		return deps.Metrics.Instrument(pattern, h)
	}

	// Group by pattern so one handler answers every method on a path and
	// rejects the rest with the 405 envelope.
	var patterns []string
	byPattern := map[string]map[string]http.Handler{}
	for _, rt := range triviaRoutes(deps.Trivia) {
		var h http.Handler = rt.handler
		if rt.admin {
			h = requireAdmin(h)
		}
		if _, ok := byPattern[rt.pattern]; !ok {
			byPattern[rt.pattern] = map[string]http.Handler{}
			patterns = append(patterns, rt.pattern)
		}
		byPattern[rt.pattern][rt.method] = h
	}
	for _, pattern := range patterns {
		mux.Handle(pattern, instrument(pattern, methodSwitch(byPattern[pattern])))
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if deps.Metrics != nil {
		mux.Handle("GET /metrics", deps.Metrics.Handler())
	}

	mux.HandleFunc("GET /v1/ping", func(w http.ResponseWriter, r *http.Request) {
		if err := pingDependencies(r.Context(), deps.Pingers); err != nil {
			logger := logging.FromContext(r.Context())
			logger.Error().Err(err).Msg("dependency ping failed")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`{"pong":false}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"pong":true}`))
	})

	if deps.Feed != nil {
		mux.HandleFunc("GET /ws/questions", deps.Feed)
	}

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		httperrors.RespondNotFound(w)
	})

	return logging.Middleware(logger)(newCORS(cfg.CORS).Handler(mux))
}

// NewHTTPServer wraps NewHandler in an http.Server bound to the configured address.
func NewHTTPServer(cfg *config.App, logger zerolog.Logger, deps Dependencies) *http.Server {
	return &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: NewHandler(cfg, logger, deps),
	}
}

func methodSwitch(handlers map[string]http.Handler) http.Handler {
	allowed := make([]string, 0, len(handlers)+1)
	for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete} {
		if _, ok := handlers[m]; ok {
			allowed = append(allowed, m)
		}
	}
	allowed = append(allowed, http.MethodOptions)
	allow := strings.Join(allowed, ", ")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.Header().Set("Allow", allow)
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h, ok := handlers[r.Method]
		if !ok && r.Method == http.MethodHead {
			h, ok = handlers[http.MethodGet]
		}
		if !ok {
			httperrors.RespondMethodNotAllowed(w, allow)
			return
		}
		h.ServeHTTP(w, r)
	})
}

func newCORS(cfg config.CORS) *cors.Cors {
	return cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{logging.RequestIDHeader},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}

func pingDependencies(ctx context.Context, pingers map[string]Pinger) error {
	for name, p := range pingers {
		if err := p.Ping(ctx); err != nil {
			return &DependencyError{Name: name, Err: err}
		}
	}
	return nil
}

// DependencyError names the dependency that failed a ping.
type DependencyError struct {
	Name string
	Err  error
}

func (e *DependencyError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// RedisPinger adapts a Redis client, whose Ping returns a command rather than an error.
type RedisPinger struct {
	Client *redis.Client
}

func (p RedisPinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}
