package marketdata

import (
	"sort"

	"github.com/rxtech-lab/coinlab/pkg/errors"
	"github.com/rxtech-lab/coinlab/pkg/marketdata/provider"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
}

var providerRegistry = map[provider.ProviderType]ProviderInfo{
	provider.ProviderCoinGecko: {
		Name:         string(provider.ProviderCoinGecko),
		DisplayName:  "CoinGecko",
		Description:  "Daily USD prices from the public CoinGecko market chart API",
		RequiresAuth: false,
	},
	provider.ProviderBinance: {
		Name:         string(provider.ProviderBinance),
		DisplayName:  "Binance",
		Description:  "Daily USDT klines from the Binance public market data API",
		RequiresAuth: false,
	},
	provider.ProviderPolygon: {
		Name:         string(provider.ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "Daily crypto aggregates from Polygon.io",
		RequiresAuth: true,
	},
	provider.ProviderDuckDB: {
		Name:         string(provider.ProviderDuckDB),
		DisplayName:  "Local parquet",
		Description:  "Prices previously downloaded to parquet files, queried with DuckDB",
		RequiresAuth: false,
	},
}

// GetSupportedProviders returns all supported provider names, sorted.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	sort.Strings(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[provider.ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}
