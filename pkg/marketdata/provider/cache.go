package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rxtech-lab/coinlab/internal/logger"
	"github.com/rxtech-lab/coinlab/internal/types"
	"go.uber.org/zap"
)

const (
	// DefaultCacheTTL is used when a caching provider is created with a non-positive TTL.
	DefaultCacheTTL = 5 * time.Minute
	// DefaultCacheNamespace prefixes every cache key when no namespace is given.
	DefaultCacheNamespace = "prices"
)

// CachingProvider decorates a Provider with a Redis read-through cache.
// Cache failures never fail a request; the inner provider is used instead.
type CachingProvider struct {
	inner     Provider
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	log       *logger.Logger
}

// NewCachingProvider wraps inner. A nil rdb disables caching.
func NewCachingProvider(rdb *redis.Client, ttl time.Duration, inner Provider, namespace string, log *logger.Logger) *CachingProvider {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	if namespace == "" {
		namespace = DefaultCacheNamespace
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &CachingProvider{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		log:       log,
	}
}

// Name reports the wrapped provider's name.
func (c *CachingProvider) Name() ProviderType {
	return c.inner.Name()
}

// GetHistoricalPrices implements Provider.
func (c *CachingProvider) GetHistoricalPrices(ctx context.Context, coinID string, days int) ([]types.PricePoint, error) {
	if c.rdb == nil {
		return c.inner.GetHistoricalPrices(ctx, coinID, days)
	}

	key := c.cacheKey(coinID, days)

	if b, err := c.rdb.Get(ctx, key).Bytes(); err == nil && len(b) > 0 {
		var points []types.PricePoint
		if err := json.Unmarshal(b, &points); err == nil {
			c.log.Debug("price cache hit", zap.String("key", key), zap.Int("points", len(points)))

			return points, nil
		}

		c.log.Warn("dropping corrupted cache entry", zap.String("key", key))
		_ = c.rdb.Del(ctx, key).Err()
	}

	points, err := c.inner.GetHistoricalPrices(ctx, coinID, days)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(points); err == nil {
		if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
			c.log.Debug("failed to store prices in cache", zap.String("key", key), zap.Error(err))
		}
	}

	return points, nil
}

// Invalidate drops every cached entry of coinID for this provider.
func (c *CachingProvider) Invalidate(ctx context.Context, coinID string) error {
	if c.rdb == nil {
		return nil
	}

	pattern := c.cacheKeyPrefix(coinID) + "*"

	var cursor uint64

	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, pattern, 200).Result()
		if err != nil {
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
		}

		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *CachingProvider) cacheKey(coinID string, days int) string {
	return fmt.Sprintf("%s%d", c.cacheKeyPrefix(coinID), days)
}

func (c *CachingProvider) cacheKeyPrefix(coinID string) string {
	return fmt.Sprintf("%s:%s:%s:", c.namespace, c.inner.Name(), safeKeyPart(coinID))
}

func safeKeyPart(s string) string {
	s = strings.ReplaceAll(s, " ", "_")

	return strings.ReplaceAll(s, ":", "_")
}
