package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/internal/auth"
	"github.com/gokatarajesh/trivia-api/internal/auth/jwt"
	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
	"github.com/gokatarajesh/trivia-api/internal/feed"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/metrics"
	"github.com/gokatarajesh/trivia-api/internal/server"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
	ws "github.com/gokatarajesh/trivia-api/pkg/http/ws"
)

// worker is a background loop that runs until its context is cancelled.
type worker struct {
	name string
	run  func(ctx context.Context) error
}

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	hub   *ws.Hub
	http  *http.Server

	workers   []worker
	bgCancels []context.CancelFunc
}

// New bootstraps logger, Postgres, optional Redis, the trivia service and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	pool, err := pgxpool.New(ctx, cfg.Postgres.ConnString())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	queries := sqlcgen.New(pool)
	questionRepo := repository.NewQuestionRepository(queries)
	categoryRepo := repository.NewCategoryRepository(queries)

	m := metrics.New()
	hub := ws.NewHub(logger)

	opts := trivia.ServiceOptions{
		PageSize: cfg.Trivia.QuestionsPerPage,
		Observer: m,
	}
	pingers := map[string]server.Pinger{"postgres": pool}

	var (
		redisClient *redis.Client
		workers     []worker
	)
	if cfg.Redis.Enabled() {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		opts.Cache = trivia.NewCache(redisClient, cfg.Trivia.CategoryCacheTTL)
		opts.Events = feed.NewRedisPublisher(redisClient, cfg.Redis.Channel)
		pingers["redis"] = server.RedisPinger{Client: redisClient}

		broadcaster := feed.NewBroadcaster(redisClient, hub, cfg.Redis.Channel, logger)
		workers = append(workers, worker{name: "question feed broadcaster", run: broadcaster.Run})
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; category cache disabled and question events stay in-process")
		opts.Events = feed.NewLocalPublisher(hub)
	}

	triviaSvc := trivia.NewService(questionRepo, categoryRepo, opts, logger)
	if opts.Cache != nil {
		warmer := trivia.NewCacheWarmer(triviaSvc, cfg.Trivia.CategoryCacheRefresh, logger)
		workers = append(workers, worker{name: "category cache warmer", run: warmer.Run})
	}

	var validator auth.TokenValidator
	if cfg.Security.JWTSecret != "" {
		manager, err := jwt.NewManager(jwt.TokenConfig{
			Secret: []byte(cfg.Security.JWTSecret),
			TTL:    cfg.Security.JWTTTL,
			Issuer: cfg.Security.JWTIssuer,
		})
		if err != nil {
			return nil, fmt.Errorf("jwt manager: %w", err)
		}
		validator = manager
		logger.Info().Msg("admin token required for question writes")
	} else {
		logger.Warn().Msg("JWT_SECRET not set; question create/delete are unauthenticated")
	}

	apiServer := server.NewHTTPServer(cfg, logger, server.Dependencies{
		Trivia:  trivia.NewHTTPHandlers(triviaSvc, logger),
		Feed:    feed.NewHandler(hub, logger).HandleWebSocket,
		Auth:    validator,
		Metrics: m,
		Pingers: pingers,
	})

	return &Application{
		cfg:       cfg,
		logger:    logger,
		pool:      pool,
		redis:     redisClient,
		hub:       hub,
		http:      apiServer,
		workers:   workers,
		bgCancels: make([]context.CancelFunc, 0, len(workers)),
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	a.startBackgroundWorkers(ctx)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	for _, cancel := range a.bgCancels {
		cancel()
	}
	a.hub.Close()

	a.pool.Close()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}

func (a *Application) startBackgroundWorkers(ctx context.Context) {
	for _, w := range a.workers {
		bgCtx, cancel := context.WithCancel(ctx)
		a.bgCancels = append(a.bgCancels, cancel)
		go func(w worker) {
			if err := w.run(bgCtx); err != nil && !errors.Is(err, context.Canceled) {
				a.logger.Warn().Err(err).Str("worker", w.name).Msg("background worker stopped")
			}
		}(w)
	}
}
