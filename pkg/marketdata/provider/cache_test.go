package provider

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubProvider is a Provider backed by a function.
type stubProvider struct {
	name  ProviderType
	fetch func(ctx context.Context, coinID string, days int) ([]types.PricePoint, error)
	calls int
}

func (s *stubProvider) Name() ProviderType {
	return s.name
}

func (s *stubProvider) GetHistoricalPrices(ctx context.Context, coinID string, days int) ([]types.PricePoint, error) {
	s.calls++
	if s.fetch != nil {
		return s.fetch(ctx, coinID, days)
	}
	return nil, nil
}

func samplePoints() []types.PricePoint {
	return []types.PricePoint{
		{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Price: 100},
		{Time: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), Price: 102},
	}
}

func TestNewCachingProviderDefaults(t *testing.T) {
	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{name: "zero values", ttl: 0, namespace: "", expectedTTL: DefaultCacheTTL, expectedNamespace: DefaultCacheNamespace},
		{name: "negative ttl", ttl: -time.Minute, namespace: "", expectedTTL: DefaultCacheTTL, expectedNamespace: DefaultCacheNamespace},
		{name: "custom values", ttl: time.Hour, namespace: "coinlab", expectedTTL: time.Hour, expectedNamespace: "coinlab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewCachingProvider(nil, tt.ttl, &stubProvider{name: ProviderCoinGecko}, tt.namespace, nil)
			assert.Equal(t, tt.expectedTTL, cache.ttl)
			assert.Equal(t, tt.expectedNamespace, cache.namespace)
			assert.Equal(t, ProviderCoinGecko, cache.Name())
		})
	}
}

func TestCachingProviderNilRedis(t *testing.T) {
	inner := &stubProvider{
		name: ProviderCoinGecko,
		fetch: func(_ context.Context, _ string, _ int) ([]types.PricePoint, error) {
			return samplePoints(), nil
		},
	}

	cache := NewCachingProvider(nil, time.Minute, inner, "", nil)

	points, err := cache.GetHistoricalPrices(context.Background(), "bitcoin", 30)
	require.NoError(t, err)
	assert.Len(t, points, 2)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, cache.Invalidate(context.Background(), "bitcoin"))
}

func TestCachingProviderCacheHit(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, err := json.Marshal(samplePoints())
	require.NoError(t, err)

	mock.ExpectGet("prices:coingecko:bitcoin:30").SetVal(string(cached))

	inner := &stubProvider{name: ProviderCoinGecko}
	cache := NewCachingProvider(rdb, 5*time.Minute, inner, "", nil)

	points, err := cache.GetHistoricalPrices(context.Background(), "bitcoin", 30)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 102.0, points[1].Price)
	assert.Equal(t, 0, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingProviderCacheMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, err := json.Marshal(samplePoints())
	require.NoError(t, err)

	mock.ExpectGet("prices:binance:ethereum:7").RedisNil()
	mock.ExpectSet("prices:binance:ethereum:7", expected, 5*time.Minute).SetVal("OK")

	inner := &stubProvider{
		name: ProviderBinance,
		fetch: func(_ context.Context, _ string, _ int) ([]types.PricePoint, error) {
			return samplePoints(), nil
		},
	}

	cache := NewCachingProvider(rdb, 5*time.Minute, inner, "", nil)

	points, err := cache.GetHistoricalPrices(context.Background(), "ethereum", 7)
	require.NoError(t, err)
	assert.Len(t, points, 2)
	assert.Equal(t, 1, inner.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingProviderInnerError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("upstream down")

	mock.ExpectGet("prices:coingecko:bitcoin:30").RedisNil()

	inner := &stubProvider{
		name: ProviderCoinGecko,
		fetch: func(_ context.Context, _ string, _ int) ([]types.PricePoint, error) {
			return nil, expectedErr
		},
	}

	cache := NewCachingProvider(rdb, 5*time.Minute, inner, "", nil)

	_, err := cache.GetHistoricalPrices(context.Background(), "bitcoin", 30)
	require.Error(t, err)
	assert.ErrorIs(t, err, expectedErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingProviderCorruptedEntry(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, err := json.Marshal(samplePoints())
	require.NoError(t, err)

	mock.ExpectGet("prices:coingecko:bitcoin:30").SetVal("invalid json")
	mock.ExpectDel("prices:coingecko:bitcoin:30").SetVal(1)
	mock.ExpectSet("prices:coingecko:bitcoin:30", expected, 5*time.Minute).SetVal("OK")

	inner := &stubProvider{
		name: ProviderCoinGecko,
		fetch: func(_ context.Context, _ string, _ int) ([]types.PricePoint, error) {
			return samplePoints(), nil
		},
	}

	cache := NewCachingProvider(rdb, 5*time.Minute, inner, "", nil)

	points, err := cache.GetHistoricalPrices(context.Background(), "bitcoin", 30)
	require.NoError(t, err)
	assert.Len(t, points, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingProviderRedisUnavailable(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expected, err := json.Marshal(samplePoints())
	require.NoError(t, err)

	mock.ExpectGet("prices:coingecko:bitcoin:30").SetErr(errors.New("connection refused"))
	mock.ExpectSet("prices:coingecko:bitcoin:30", expected, 5*time.Minute).SetErr(errors.New("connection refused"))

	inner := &stubProvider{
		name: ProviderCoinGecko,
		fetch: func(_ context.Context, _ string, _ int) ([]types.PricePoint, error) {
			return samplePoints(), nil
		},
	}

	cache := NewCachingProvider(rdb, 5*time.Minute, inner, "", nil)

	points, err := cache.GetHistoricalPrices(context.Background(), "bitcoin", 30)
	require.NoError(t, err)
	assert.Len(t, points, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachingProviderInvalidate(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectScan(0, "prices:coingecko:bitcoin:*", 200).SetVal([]string{"prices:coingecko:bitcoin:30", "prices:coingecko:bitcoin:7"}, 0)
	mock.ExpectDel("prices:coingecko:bitcoin:30", "prices:coingecko:bitcoin:7").SetVal(2)

	cache := NewCachingProvider(rdb, 0, &stubProvider{name: ProviderCoinGecko}, "", nil)

	require.NoError(t, cache.Invalidate(context.Background(), "bitcoin"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSafeKeyPart(t *testing.T) {
	assert.Equal(t, "usd_coin", safeKeyPart("usd coin"))
	assert.Equal(t, "a_b", safeKeyPart("a:b"))
}
