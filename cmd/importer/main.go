package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
	"github.com/gokatarajesh/trivia-api/internal/feed"
	"github.com/gokatarajesh/trivia-api/internal/importer"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

func main() {
	var (
		amount     = flag.Int("amount", 20, "Number of questions to request (max 50)")
		difficulty = flag.String("difficulty", "", "easy, medium or hard; empty for any")
		qType      = flag.String("type", "", "multiple or boolean; empty for any")
		baseURL    = flag.String("opentdb-url", "", "Open Trivia DB base URL")
		timeout    = flag.Duration("timeout", 30*time.Second, "Overall import timeout")
	)
	flag.Parse()

	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil {
			log.Warn().Err(err).Msg("could not load .env file")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	code := run(ctx, *amount, *difficulty, *qType, *baseURL)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, amount int, difficulty, qType, baseURL string) int {
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
		return 1
	}
	logger := logging.New(cfg.Name+"-importer", cfg.Env)

	pool, err := pgxpool.New(ctx, cfg.Postgres.ConnString())
	if err != nil {
		logger.Error().Err(err).Msg("connect postgres")
		return 1
	}
	defer pool.Close()

	queries := sqlcgen.New(pool)
	opts := trivia.ServiceOptions{PageSize: cfg.Trivia.QuestionsPerPage}
	if cfg.Redis.Enabled() {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		defer rdb.Close()
		// Running API replicas pick the new questions up from the feed channel.
		opts.Events = feed.NewRedisPublisher(rdb, cfg.Redis.Channel)
	}
	svc := trivia.NewService(
		repository.NewQuestionRepository(queries),
		repository.NewCategoryRepository(queries),
		opts,
		logger,
	)

	imp := importer.New(importer.NewOpenTDBClient(baseURL, nil), svc, logger)
	res, err := imp.Import(ctx, amount, difficulty, qType)
	if err != nil {
		logger.Error().Err(err).Int("imported", res.Imported).Msg("import failed")
		return 1
	}
	return 0
}
