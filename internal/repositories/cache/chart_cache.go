// Package cache holds Redis read-through caches for read-shared reference data.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/bank_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/bank_reconciliation_app/internal/core/ports/repositories"
	"github.com/SscSPs/bank_reconciliation_app/internal/middleware"
	"github.com/go-redis/redis/v8"
)

const keyPrefix = "recon:"

// Cmdable is the subset of the Redis client the caches use. *redis.Client satisfies it.
type Cmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// NewRedisClient creates a Redis client for addr.
func NewRedisClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})
}

// ChartCache caches analytic mappings and FX bands. Redis failures degrade to the
// wrapped repository and are only logged.
type ChartCache struct {
	client Cmdable
	ttl    time.Duration
}

// NewChartCache creates a cache whose entries expire after ttl.
func NewChartCache(client Cmdable, ttl time.Duration) *ChartCache {
	return &ChartCache{client: client, ttl: ttl}
}

// Wrap returns a ChartRepository that reads through the cache into next.
func (c *ChartCache) Wrap(next portsrepo.ChartRepository) portsrepo.ChartRepository {
	return &cachedChart{next: next, cache: c}
}

// InvalidateAnalytic drops the cached mapping of an IBAN and currency.
func (c *ChartCache) InvalidateAnalytic(ctx context.Context, tenantID, iban, currencyCode string) error {
	return c.client.Del(ctx, analyticKey(tenantID, iban, currencyCode)).Err()
}

func analyticKey(tenantID, iban, currencyCode string) string {
	return keyPrefix + "analytic:" + tenantID + ":" + domain.NormalizeIBAN(iban) + ":" + strings.ToUpper(currencyCode)
}

const fxBandsKey = keyPrefix + "fx_bands"

// load decodes a cached value into dst. It reports false on a miss or on any failure.
func (c *ChartCache) load(ctx context.Context, key string, dst any) bool {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			middleware.GetLoggerFromCtx(ctx).Warn("Cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Cache entry undecodable", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return true
}

func (c *ChartCache) store(ctx context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err == nil {
		err = c.client.Set(ctx, key, raw, c.ttl).Err()
	}
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

type cachedChart struct {
	next  portsrepo.ChartRepository
	cache *ChartCache
}

var _ portsrepo.ChartRepository = (*cachedChart)(nil)

// FindAnalyticByIBAN serves mappings from Redis. Missing mappings are not cached.
func (r *cachedChart) FindAnalyticByIBAN(ctx context.Context, tenantID, iban, currencyCode string) (*domain.BankAccountAnalytic, error) {
	key := analyticKey(tenantID, iban, currencyCode)
	var cached domain.BankAccountAnalytic
	if r.cache.load(ctx, key, &cached) {
		return &cached, nil
	}

	a, err := r.next.FindAnalyticByIBAN(ctx, tenantID, iban, currencyCode)
	if err != nil {
		return nil, err
	}
	r.cache.store(ctx, key, a)
	return a, nil
}

// FindChartAccounts is not cached: the account set differs per call.
func (r *cachedChart) FindChartAccounts(ctx context.Context, tenantID string, codes []string) (map[string]domain.ChartAccount, error) {
	return r.next.FindChartAccounts(ctx, tenantID, codes)
}

func (r *cachedChart) ListFxBands(ctx context.Context) (domain.FxBands, error) {
	var cached domain.FxBands
	if r.cache.load(ctx, fxBandsKey, &cached) && len(cached) > 0 {
		return cached, nil
	}

	bands, err := r.next.ListFxBands(ctx)
	if err != nil {
		return nil, err
	}
	r.cache.store(ctx, fxBandsKey, bands)
	return bands, nil
}
