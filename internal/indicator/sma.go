package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
)

// SMAIndicator implements Simple Moving Average calculation.
type SMAIndicator struct {
	period int
}

// NewSMAIndicator creates a new SMA indicator with default configuration.
func NewSMAIndicator() Indicator {
	return &SMAIndicator{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (m *SMAIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// Expected parameters: period (int).
func (m *SMAIndicator) Config(params ...any) error {
	if len(params) != 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects 1 parameter: period (int)")
	}

	period, ok := periodFromParam(params[0])
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int or float")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	m.period = period

	return nil
}

// Calculate implements Indicator.
func (m *SMAIndicator) Calculate(prices types.PriceSeries) (types.IndicatorSeries, error) {
	return SMA(prices, m.period)
}

// SMA returns the simple moving average of prices over period.
// The result is aligned with prices: index i holds the mean of prices[i-period+1..i]
// and the first period-1 positions are None.
func SMA(prices types.PriceSeries, period int) (types.IndicatorSeries, error) {
	if period <= 0 {
		return types.IndicatorSeries{}, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	values := make([]optional.Option[float64], len(prices))

	for i := range prices {
		if i < period-1 {
			values[i] = optional.None[float64]()

			continue
		}

		// Summed oldest-first over the window so results match a plain slice mean.
		sum := 0.0
		for _, p := range prices[i-period+1 : i+1] {
			sum += p
		}

		values[i] = optional.Some(sum / float64(period))
	}

	return types.IndicatorSeries{
		Name:   types.IndicatorTypeSMA,
		Period: period,
		Offset: 0,
		Values: values,
	}, nil
}
