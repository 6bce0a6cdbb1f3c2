package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rxtech-lab/coinlab/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type CoinGeckoClientTestSuite struct {
	suite.Suite
}

func TestCoinGeckoClientSuite(t *testing.T) {
	suite.Run(t, new(CoinGeckoClientTestSuite))
}

func (suite *CoinGeckoClientTestSuite) TestDefaults() {
	client := NewCoinGeckoClient("", "")
	suite.Equal(DefaultCoinGeckoBaseURL, client.baseURL)
	suite.Equal(ProviderCoinGecko, client.Name())
	suite.Empty(client.apiKey)
}

func (suite *CoinGeckoClientTestSuite) TestMarketChartURL() {
	client := NewCoinGeckoClient("https://example.test/api/v3/", "")
	suite.Equal(
		"https://example.test/api/v3/coins/bitcoin/market_chart?days=30&interval=daily&vs_currency=usd",
		client.marketChartURL("bitcoin", 30),
	)
}

func (suite *CoinGeckoClientTestSuite) TestGetHistoricalPrices() {
	var (
		gotPath  string
		gotQuery string
		gotKey   string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("x-cg-demo-api-key")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"prices":[[1704067200000,42000.5],[1704153600000,43000.25]],"market_caps":[],"total_volumes":[]}`)
	}))
	defer server.Close()

	client := NewCoinGeckoClientWithHTTP(server.URL, "demo-key", server.Client())

	points, err := client.GetHistoricalPrices(context.Background(), "ethereum", 2)
	suite.Require().NoError(err)
	suite.Require().Len(points, 2)

	suite.Equal("/coins/ethereum/market_chart", gotPath)
	suite.Equal("days=2&interval=daily&vs_currency=usd", gotQuery)
	suite.Equal("demo-key", gotKey)

	suite.True(points[0].Time.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	suite.Equal(42000.5, points[0].Price)
	suite.Equal(43000.25, points[1].Price)
}

func (suite *CoinGeckoClientTestSuite) TestUnknownCoinPassesThrough() {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"prices":[]}`)
	}))
	defer server.Close()

	client := NewCoinGeckoClientWithHTTP(server.URL, "", server.Client())

	points, err := client.GetHistoricalPrices(context.Background(), "dogecoin", 7)
	suite.Require().NoError(err)
	suite.Empty(points)
	suite.Equal("/coins/dogecoin/market_chart", gotPath)
}

func (suite *CoinGeckoClientTestSuite) TestHTTPErrorStatus() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"status":{"error_code":429}}`)
	}))
	defer server.Close()

	client := NewCoinGeckoClientWithHTTP(server.URL, "", server.Client())

	_, err := client.GetHistoricalPrices(context.Background(), "bitcoin", 30)
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeMarketDataFetchFailed, errors.GetCode(err))
	suite.Contains(err.Error(), "429")
}

func (suite *CoinGeckoClientTestSuite) TestMalformedBody() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	client := NewCoinGeckoClientWithHTTP(server.URL, "", server.Client())

	_, err := client.GetHistoricalPrices(context.Background(), "bitcoin", 30)
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeMarketDataParseFailed, errors.GetCode(err))
}

func (suite *CoinGeckoClientTestSuite) TestInvalidDays() {
	client := NewCoinGeckoClient("", "")

	_, err := client.GetHistoricalPrices(context.Background(), "bitcoin", 0)
	suite.Require().Error(err)
	suite.Equal(errors.ErrCodeInvalidDays, errors.GetCode(err))
}

func (suite *CoinGeckoClientTestSuite) TestInvalidCoinIDIsNotRequested() {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		fmt.Fprint(w, `{"prices":[]}`)
	}))
	defer server.Close()

	client := NewCoinGeckoClientWithHTTP(server.URL, "", server.Client())

	_, err := client.GetHistoricalPrices(context.Background(), "../simple/price", 30)
	suite.Equal(errors.ErrCodeInvalidParameter, errors.GetCode(err))
	suite.Zero(requests)
}

func (suite *CoinGeckoClientTestSuite) TestCancelledContext() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"prices":[]}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewCoinGeckoClientWithHTTP(server.URL, "", server.Client())

	_, err := client.GetHistoricalPrices(ctx, "bitcoin", 30)
	suite.Require().Error(err)
	suite.ErrorIs(err, context.Canceled)
}

func (suite *CoinGeckoClientTestSuite) TestGetMarkets() {
	var gotPath, gotQuery string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id":"bitcoin","symbol":"btc","name":"Bitcoin","current_price":64000.5,"market_cap":1260000000000,"price_change_percentage_24h":-1.25},
			{"id":"tether","symbol":"usdt","name":"Tether","current_price":1,"market_cap":null,"price_change_percentage_24h":null}
		]`)
	}))
	defer server.Close()

	client := NewCoinGeckoClientWithHTTP(server.URL, "", server.Client())

	markets, err := client.GetMarkets(context.Background(), 2)
	suite.Require().NoError(err)

	suite.Equal("/coins/markets", gotPath)
	suite.Equal("order=market_cap_desc&page=1&per_page=2&sparkline=false&vs_currency=usd", gotQuery)
	suite.Equal([]CoinMarket{
		{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 64000.5, MarketCap: 1260000000000, PriceChange24h: -1.25},
		{ID: "tether", Symbol: "usdt", Name: "Tether", CurrentPrice: 1, MarketCap: 0, PriceChange24h: 0},
	}, markets)
}

func (suite *CoinGeckoClientTestSuite) TestGetMarketsLimit() {
	var perPage string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		perPage = r.URL.Query().Get("per_page")
		fmt.Fprint(w, `[]`)
	}))
	defer server.Close()

	client := NewCoinGeckoClientWithHTTP(server.URL, "", server.Client())

	_, err := client.GetMarkets(context.Background(), 0)
	suite.Require().NoError(err)
	suite.Equal("50", perPage)

	_, err = client.GetMarkets(context.Background(), 251)
	suite.Equal(errors.ErrCodeInvalidParameter, errors.GetCode(err))
}

func (suite *CoinGeckoClientTestSuite) TestGetMarketsHTTPError() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewCoinGeckoClientWithHTTP(server.URL, "", server.Client())

	_, err := client.GetMarkets(context.Background(), 10)
	suite.Equal(errors.ErrCodeMarketDataFetchFailed, errors.GetCode(err))
}
