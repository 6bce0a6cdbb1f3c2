package provider

import (
	"context"
	"fmt"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
)

// binancePageLimit is the largest page the klines endpoint returns.
const binancePageLimit = 1000

const binanceDailyInterval = "1d"

// BinanceAPIClient is the part of the Binance SDK client the provider uses.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

// BinanceKlinesService is the builder returned by BinanceAPIClient.NewKlinesService.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Limit(limit int) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

type binanceClientWrapper struct {
	client *binance.Client
}

func (w *binanceClientWrapper) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesServiceWrapper{service: w.client.NewKlinesService()}
}

type binanceKlinesServiceWrapper struct {
	service *binance.KlinesService
}

func (w *binanceKlinesServiceWrapper) Symbol(symbol string) BinanceKlinesService {
	w.service.Symbol(symbol)

	return w
}

func (w *binanceKlinesServiceWrapper) Interval(interval string) BinanceKlinesService {
	w.service.Interval(interval)

	return w
}

func (w *binanceKlinesServiceWrapper) StartTime(startTime int64) BinanceKlinesService {
	w.service.StartTime(startTime)

	return w
}

func (w *binanceKlinesServiceWrapper) EndTime(endTime int64) BinanceKlinesService {
	w.service.EndTime(endTime)

	return w
}

func (w *binanceKlinesServiceWrapper) Limit(limit int) BinanceKlinesService {
	w.service.Limit(limit)

	return w
}

func (w *binanceKlinesServiceWrapper) Do(ctx context.Context) ([]*binance.Kline, error) {
	return w.service.Do(ctx)
}

// BinanceClient reads daily USDT klines from the public Binance market data API.
type BinanceClient struct {
	apiClient  BinanceAPIClient
	now        func() time.Time
	onProgress OnDownloadProgress
}

// NewBinanceClient creates a client without credentials; klines are public.
func NewBinanceClient() (Provider, error) {
	return NewBinanceClientWithAPI(&binanceClientWrapper{client: binance.NewClient("", "")}), nil
}

// NewBinanceClientWithAPI creates a client on top of apiClient.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return &BinanceClient{
		apiClient:  apiClient,
		now:        time.Now,
		onProgress: nil,
	}
}

// OnProgress implements ProgressReporter. The callback runs after every fetched page
// with milliseconds of history fetched so far.
func (c *BinanceClient) OnProgress(onProgress OnDownloadProgress) {
	c.onProgress = onProgress
}

// Name implements Provider.
func (c *BinanceClient) Name() ProviderType {
	return ProviderBinance
}

// GetHistoricalPrices implements Provider with the daily close of <SYMBOL>USDT.
// Requests are paginated at binancePageLimit klines.
func (c *BinanceClient) GetHistoricalPrices(ctx context.Context, coinID string, days int) ([]types.PricePoint, error) {
	if err := validateDays(days); err != nil {
		return nil, err
	}

	symbol, err := exchangeSymbol(coinID)
	if err != nil {
		return nil, err
	}

	ticker := symbol + "USDT"

	end := c.now()
	startMillis := end.AddDate(0, 0, -days).UnixMilli()
	endMillis := end.UnixMilli()

	points := make([]types.PricePoint, 0, days)
	currentStart := startMillis

	for {
		klines, err := c.apiClient.NewKlinesService().
			Symbol(ticker).
			Interval(binanceDailyInterval).
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binancePageLimit).
			Do(ctx)
		if err != nil {
			return nil, fetchFailed(c.Name(), coinID, err)
		}

		converted, err := convertKlines(klines)
		if err != nil {
			return nil, err
		}

		points = append(points, converted...)

		if c.onProgress != nil && len(klines) > 0 {
			fetched := min(klines[len(klines)-1].CloseTime, endMillis) - startMillis
			c.onProgress(float64(fetched), float64(endMillis-startMillis), fmt.Sprintf("Downloading %s klines from Binance", ticker))
		}

		if len(klines) < binancePageLimit {
			break
		}

		// Continue after the close of the last kline to avoid duplicates.
		currentStart = klines[len(klines)-1].CloseTime + 1
		if currentStart >= endMillis {
			break
		}
	}

	return points, nil
}

// convertKlines keeps the open time and close price of each kline.
func convertKlines(klines []*binance.Kline) ([]types.PricePoint, error) {
	points := make([]types.PricePoint, 0, len(klines))

	for _, k := range klines {
		closePrice, err := strconv.ParseFloat(k.Close, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid close price %q", k.Close)
		}

		points = append(points, types.PricePoint{
			Time:  time.UnixMilli(k.OpenTime).UTC(),
			Price: closePrice,
		})
	}

	return points, nil
}
