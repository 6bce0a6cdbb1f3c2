package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
)

// DefaultCoinGeckoBaseURL is the public CoinGecko v3 API.
const DefaultCoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

const coinGeckoAPIKeyHeader = "x-cg-demo-api-key"

// CoinGeckoClient fetches daily USD prices from the CoinGecko market_chart endpoint.
type CoinGeckoClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// DefaultMarketsLimit is the number of coins GetMarkets returns when limit is not positive.
const DefaultMarketsLimit = 50

// coingecko caps per_page at 250
const maxMarketsLimit = 250

// CoinMarket is the current USD market snapshot of a coin.
type CoinMarket struct {
	ID             string  `json:"id"`
	Symbol         string  `json:"symbol"`
	Name           string  `json:"name"`
	CurrentPrice   float64 `json:"currentPrice"`
	MarketCap      float64 `json:"marketCap"`
	PriceChange24h float64 `json:"priceChange24h"`
}

// MarketLister lists coins with their current market data, largest market cap first.
type MarketLister interface {
	GetMarkets(ctx context.Context, limit int) ([]CoinMarket, error)
}

type coinMarketResponse struct {
	ID           string   `json:"id"`
	Symbol       string   `json:"symbol"`
	Name         string   `json:"name"`
	CurrentPrice *float64 `json:"current_price"`
	MarketCap    *float64 `json:"market_cap"`
	Change24h    *float64 `json:"price_change_percentage_24h"`
}

type marketChartResponse struct {
	// Each entry is [unix milliseconds, price].
	Prices [][2]float64 `json:"prices"`
}

// NewCoinGeckoClient creates a client. An empty baseURL uses DefaultCoinGeckoBaseURL
// and an empty apiKey sends no key header.
func NewCoinGeckoClient(baseURL string, apiKey string) *CoinGeckoClient {
	if baseURL == "" {
		baseURL = DefaultCoinGeckoBaseURL
	}

	return &CoinGeckoClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// NewCoinGeckoClientWithHTTP creates a client that sends requests through httpClient.
func NewCoinGeckoClientWithHTTP(baseURL string, apiKey string, httpClient *http.Client) *CoinGeckoClient {
	client := NewCoinGeckoClient(baseURL, apiKey)
	client.httpClient = httpClient

	return client
}

// Name implements Provider.
func (c *CoinGeckoClient) Name() ProviderType {
	return ProviderCoinGecko
}

// GetHistoricalPrices implements Provider.
// Known coins are mapped to their CoinGecko id; any other id is sent as is.
func (c *CoinGeckoClient) GetHistoricalPrices(ctx context.Context, coinID string, days int) ([]types.PricePoint, error) {
	if err := validateDays(days); err != nil {
		return nil, err
	}

	if err := types.ValidateCoinID(coinID); err != nil {
		return nil, err
	}

	id := coinID
	if coin, ok := LookupCoin(coinID); ok {
		id = coin.ID
	}

	var chart marketChartResponse
	if err := c.getJSON(ctx, c.marketChartURL(id, days), &chart); err != nil {
		return nil, fmt.Errorf("%s: prices for %s: %w", c.Name(), coinID, err)
	}

	points := make([]types.PricePoint, 0, len(chart.Prices))
	for _, entry := range chart.Prices {
		points = append(points, types.PricePoint{
			Time:  time.UnixMilli(int64(entry[0])).UTC(),
			Price: entry[1],
		})
	}

	return points, nil
}

// GetMarkets implements MarketLister with the coins/markets endpoint.
// A non-positive limit returns DefaultMarketsLimit coins. Missing values are reported as 0.
func (c *CoinGeckoClient) GetMarkets(ctx context.Context, limit int) ([]CoinMarket, error) {
	if limit <= 0 {
		limit = DefaultMarketsLimit
	}

	if limit > maxMarketsLimit {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "limit must be at most %d, got %d", maxMarketsLimit, limit)
	}

	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("order", "market_cap_desc")
	query.Set("per_page", strconv.Itoa(limit))
	query.Set("page", "1")
	query.Set("sparkline", "false")

	var markets []coinMarketResponse
	if err := c.getJSON(ctx, c.baseURL+"/coins/markets?"+query.Encode(), &markets); err != nil {
		return nil, err
	}

	coins := make([]CoinMarket, 0, len(markets))
	for _, market := range markets {
		coins = append(coins, CoinMarket{
			ID:             market.ID,
			Symbol:         market.Symbol,
			Name:           market.Name,
			CurrentPrice:   valueOrZero(market.CurrentPrice),
			MarketCap:      valueOrZero(market.MarketCap),
			PriceChange24h: valueOrZero(market.Change24h),
		})
	}

	return coins, nil
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}

	return *v
}

func (c *CoinGeckoClient) marketChartURL(id string, days int) string {
	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("days", strconv.Itoa(days))
	query.Set("interval", "daily")

	return fmt.Sprintf("%s/coins/%s/market_chart?%s", c.baseURL, url.PathEscape(id), query.Encode())
}

// getJSON sends a GET request to rawURL and decodes the JSON body into v.
func (c *CoinGeckoClient) getJSON(ctx context.Context, rawURL string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to build coingecko request", err)
	}

	req.Header.Set("Accept", "application/json")

	if c.apiKey != "" {
		req.Header.Set(coinGeckoAPIKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "coingecko request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))

		return errors.Newf(errors.ErrCodeMarketDataFetchFailed, "coingecko returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeMarketDataParseFailed, "failed to decode coingecko response", err)
	}

	return nil
}
