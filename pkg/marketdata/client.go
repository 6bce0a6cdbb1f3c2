// Package marketdata builds the configured price-history provider and
// downloads price history to local parquet files.
package marketdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rxtech-lab/coinlab/internal/logger"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
	"github.com/rxtech-lab/coinlab/pkg/marketdata/provider"
	"github.com/rxtech-lab/coinlab/pkg/marketdata/writer"
	"go.uber.org/zap"
)

// CacheConfig enables the Redis read-through cache in front of the provider.
type CacheConfig struct {
	Enabled   bool
	Addr      string        `validate:"required_if=Enabled true"`
	TTL       time.Duration `validate:"gte=0"`
	Namespace string
}

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType     provider.ProviderType `validate:"required,oneof=coingecko binance polygon duckdb"`
	DataPath         string                `validate:"required_if=ProviderType duckdb"`
	CoinGeckoBaseURL string                `validate:"omitempty,url"`
	CoinGeckoAPIKey  string
	PolygonAPIKey    string `validate:"required_if=ProviderType polygon"`
	Cache            CacheConfig
}

// DownloadParams holds the parameters for a download request.
type DownloadParams struct {
	CoinID string `validate:"required"`
	Days   int    `validate:"required,min=1"`

	// Refresh drops cached prices of CoinID before fetching.
	Refresh bool
}

// Client fetches price history through the configured provider.
type Client struct {
	provider  provider.Provider
	// source is provider without the cache decorator.
	source    provider.Provider
	config    ClientConfig
	validate  *validator.Validate
	log       *logger.Logger
	newWriter func(outputPath string) writer.MarketDataWriter
	closers   []func() error
}

// NewClient validates config and builds the provider, wrapped in the Redis cache when enabled.
func NewClient(config ClientConfig, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid market data client configuration", err)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, provider.Config{
		CoinGeckoBaseURL: config.CoinGeckoBaseURL,
		CoinGeckoAPIKey:  config.CoinGeckoAPIKey,
		PolygonAPIKey:    config.PolygonAPIKey,
		DataPath:         config.DataPath,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", config.ProviderType, err)
	}

	client := NewClientWithProvider(marketProvider, config, log)

	if closer, ok := marketProvider.(interface{ Close() error }); ok {
		client.closers = append(client.closers, closer.Close)
	}

	if config.Cache.Enabled {
		//nolint:exhaustruct // third-party options with many optional fields
		rdb := redis.NewClient(&redis.Options{Addr: config.Cache.Addr})
		client.provider = provider.NewCachingProvider(rdb, config.Cache.TTL, marketProvider, config.Cache.Namespace, log)
		client.closers = append(client.closers, rdb.Close)

		log.Info("price cache enabled",
			zap.String("addr", config.Cache.Addr),
			zap.Duration("ttl", config.Cache.TTL),
		)
	}

	return client, nil
}

// NewClientWithProvider creates a client around an existing provider without validation.
func NewClientWithProvider(marketProvider provider.Provider, config ClientConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		provider:  marketProvider,
		source:    marketProvider,
		config:    config,
		validate:  validator.New(),
		log:       log,
		newWriter: writer.NewDuckDBWriter,
		closers:   nil,
	}
}

// Provider returns the provider backing the client.
func (c *Client) Provider() provider.Provider {
	return c.provider
}

// Markets returns the provider's market listing, if it has one. The cache is bypassed.
func (c *Client) Markets() (provider.MarketLister, bool) {
	lister, ok := c.source.(provider.MarketLister)

	return lister, ok
}

// GetHistoricalPrices delegates to the provider.
func (c *Client) GetHistoricalPrices(ctx context.Context, coinID string, days int) ([]types.PricePoint, error) {
	return c.provider.GetHistoricalPrices(ctx, coinID, days)
}

// Download fetches the last Days days of coin prices and writes them to
// <DataPath>/<coin>.parquet, returning the output path.
// onProgress, when set, is called after every written point.
func (c *Client) Download(ctx context.Context, params DownloadParams, onProgress provider.OnDownloadProgress) (string, error) {
	if err := c.validate.Struct(params); err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	if c.config.DataPath == "" {
		return "", errors.New(errors.ErrCodeMissingParameter, "download requires a data path")
	}

	fileName, err := writer.PriceFileName(params.CoinID)
	if err != nil {
		return "", err
	}

	if params.Refresh {
		c.invalidate(ctx, params.CoinID)
	}

	if reporter, ok := c.source.(provider.ProgressReporter); ok && onProgress != nil {
		reporter.OnProgress(onProgress)
		defer reporter.OnProgress(nil)
	}

	points, err := c.provider.GetHistoricalPrices(ctx, params.CoinID, params.Days)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}

	if err := os.MkdirAll(c.config.DataPath, 0o755); err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to create data directory", err)
	}

	outputPath := filepath.Join(c.config.DataPath, fileName)

	marketWriter := c.newWriter(outputPath)
	if err := marketWriter.Initialize(); err != nil {
		return "", err
	}

	defer func() {
		if err := marketWriter.Close(); err != nil {
			c.log.Warn("failed to close writer", zap.String("path", outputPath), zap.Error(err))
		}
	}()

	total := float64(len(points))
	for i, point := range points {
		if err := marketWriter.Write(params.CoinID, point); err != nil {
			return "", err
		}

		if onProgress != nil {
			onProgress(float64(i+1), total, fmt.Sprintf("Writing %s prices", params.CoinID))
		}
	}

	path, err := marketWriter.Finalize()
	if err != nil {
		return "", err
	}

	c.log.Info("downloaded prices",
		zap.String("coin", params.CoinID),
		zap.String("provider", string(c.provider.Name())),
		zap.Int("rows", marketWriter.RowCount()),
		zap.String("path", path),
	)

	return path, nil
}

// invalidate drops cached prices of coinID. Cache failures are logged, not returned.
func (c *Client) invalidate(ctx context.Context, coinID string) {
	cache, ok := c.provider.(*provider.CachingProvider)
	if !ok {
		return
	}

	if err := cache.Invalidate(ctx, coinID); err != nil {
		c.log.Warn("failed to drop cached prices", zap.String("coin", coinID), zap.Error(err))
	}
}

// Close releases provider and cache connections.
func (c *Client) Close() error {
	var firstErr error

	for _, closeFn := range c.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
