package provider

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
)

// PolygonAggsIterator is the iterator returned by ListAggs.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the part of the Polygon SDK client the provider uses.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonClientWrapper struct {
	client *polygon.Client
}

func (w *polygonClientWrapper) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return w.client.ListAggs(ctx, params, options...)
}

// PolygonClient reads daily crypto aggregates for X:<SYMBOL>USD from Polygon.io.
type PolygonClient struct {
	apiClient PolygonAPIClient
	now       func() time.Time
}

// NewPolygonClient creates a client authenticated with apiKey.
func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "polygon provider requires an API key")
	}

	return NewPolygonClientWithAPI(&polygonClientWrapper{client: polygon.New(apiKey)}), nil
}

// NewPolygonClientWithAPI creates a client on top of apiClient.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient) *PolygonClient {
	return &PolygonClient{
		apiClient: apiClient,
		now:       time.Now,
	}
}

// Name implements Provider.
func (c *PolygonClient) Name() ProviderType {
	return ProviderPolygon
}

// GetHistoricalPrices implements Provider with the daily close of each aggregate.
func (c *PolygonClient) GetHistoricalPrices(ctx context.Context, coinID string, days int) ([]types.PricePoint, error) {
	if err := validateDays(days); err != nil {
		return nil, err
	}

	symbol, err := exchangeSymbol(coinID)
	if err != nil {
		return nil, err
	}

	end := c.now()

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     "X:" + symbol + "USD",
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(end.AddDate(0, 0, -days)),
		To:         models.Millis(end),
	}.WithLimit(50000)

	iter := c.apiClient.ListAggs(ctx, params)

	points := make([]types.PricePoint, 0, days)
	for iter.Next() {
		agg := iter.Item()
		points = append(points, types.PricePoint{
			Time:  time.Time(agg.Timestamp).UTC(),
			Price: agg.Close,
		})
	}

	if err := iter.Err(); err != nil {
		return nil, fetchFailed(c.Name(), coinID, err)
	}

	return points, nil
}
