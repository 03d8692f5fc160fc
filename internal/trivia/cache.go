package trivia

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultCacheTTL  = 10 * time.Minute
	categoryCacheKey = "trivia:categories"
)

// Cache keeps the category list in Redis so list and quiz requests skip the
// categories query. Categories are read-only through the API, so a TTL plus
// the CacheWarmer is enough to keep it fresh.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ CategoryCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) Get(ctx context.Context) (Categories, error) {
	data, err := c.client.Get(ctx, categoryCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var cats Categories
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func (c *Cache) Set(ctx context.Context, categories Categories) error {
	data, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, categoryCacheKey, data, c.ttl).Err()
}

// CacheWarmer periodically reloads categories into the cache.
type CacheWarmer struct {
	svc      *Service
	interval time.Duration
	logger   zerolog.Logger
}

func NewCacheWarmer(svc *Service, interval time.Duration, logger zerolog.Logger) *CacheWarmer {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CacheWarmer{
		svc:      svc,
		interval: interval,
		logger:   logger.With().Str("component", "category_cache_warmer").Logger(),
	}
}

// Run blocks until context cancellation.
func (w *CacheWarmer) Run(ctx context.Context) error {
	if w.svc == nil || w.svc.cache == nil {
		return nil
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// run immediately
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *CacheWarmer) tick(ctx context.Context) {
	n, err := w.svc.RefreshCategories(ctx)
	if err != nil {
		w.logger.Warn().Err(err).Msg("category refresh failed")
		return
	}
	w.logger.Debug().Int("categories", n).Msg("category cache refreshed")
}
