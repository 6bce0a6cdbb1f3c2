// Package provider fetches daily price history for a coin from an external source.
package provider

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderCoinGecko ProviderType = "coingecko"
	ProviderBinance   ProviderType = "binance"
	ProviderPolygon   ProviderType = "polygon"
	ProviderDuckDB    ProviderType = "duckdb"
)

// OnDownloadProgress reports download progress. current and total share a unit chosen by the provider.
type OnDownloadProgress = func(current float64, total float64, message string)

// Provider returns the price history of a coin.
type Provider interface {
	// Name identifies the provider in logs, metrics and cache keys.
	Name() ProviderType
	// GetHistoricalPrices returns one point per day for the last days days, oldest first.
	// coinID is a market-data identifier such as "bitcoin".
	// example:
	// GetHistoricalPrices(ctx, "bitcoin", 30)
	GetHistoricalPrices(ctx context.Context, coinID string, days int) ([]types.PricePoint, error)
}

// ProgressReporter is implemented by providers that fetch in several requests
// and can report how far a fetch has come.
type ProgressReporter interface {
	// OnProgress registers onProgress; nil unregisters it.
	OnProgress(onProgress OnDownloadProgress)
}

// Config carries the settings any provider may need.
type Config struct {
	CoinGeckoBaseURL string
	CoinGeckoAPIKey  string
	PolygonAPIKey    string
	DataPath         string
}

// NewMarketDataProvider creates a market data provider based on the provider type.
func NewMarketDataProvider(providerType ProviderType, config Config) (Provider, error) {
	switch providerType {
	case ProviderCoinGecko:
		return NewCoinGeckoClient(config.CoinGeckoBaseURL, config.CoinGeckoAPIKey), nil
	case ProviderBinance:
		return NewBinanceClient()
	case ProviderPolygon:
		return NewPolygonClient(config.PolygonAPIKey)
	case ProviderDuckDB:
		reader, err := NewDuckDBReader(config.DataPath)
		if err != nil {
			return nil, err
		}

		return reader, nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

func validateDays(days int) error {
	if days < 1 {
		return errors.Newf(errors.ErrCodeInvalidDays, "days must be at least 1, got %d", days)
	}

	return nil
}

func fetchFailed(provider ProviderType, coinID string, cause error) error {
	return errors.Wrap(errors.ErrCodeMarketDataFetchFailed, fmt.Sprintf("%s: failed to fetch prices for %s", provider, coinID), cause)
}
