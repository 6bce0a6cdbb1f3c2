package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
)

// EMA implements the Exponential Moving Average indicator.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &EMA{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Config configures the EMA indicator. Expected parameters: period (int).
func (e *EMA) Config(params ...any) error {
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

	e.period = period

	return nil
}

// Calculate implements Indicator.
func (e *EMA) Calculate(prices types.PriceSeries) (types.IndicatorSeries, error) {
	return ExponentialMovingAverage(prices, e.period)
}

// ExponentialMovingAverage seeds with the simple mean of the first period prices
// and then applies EMA = price*alpha + EMA_prev*(1-alpha) with alpha = 2/(period+1),
// matching pandas ewm(span=period, adjust=False) after the seed.
// The result is aligned with prices and the first period-1 positions are None.
func ExponentialMovingAverage(prices types.PriceSeries, period int) (types.IndicatorSeries, error) {
	if period <= 0 {
		return types.IndicatorSeries{}, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	values := make([]optional.Option[float64], len(prices))
	for i := range values {
		values[i] = optional.None[float64]()
	}

	series := types.IndicatorSeries{
		Name:   types.IndicatorTypeEMA,
		Period: period,
		Offset: 0,
		Values: values,
	}

	if len(prices) < period {
		return series, nil
	}

	ema := 0.0
	for _, p := range prices[:period] {
		ema += p
	}

	ema /= float64(period)
	values[period-1] = optional.Some(ema)

	alpha := 2.0 / float64(period+1)
	for i := period; i < len(prices); i++ {
		ema = (prices[i] * alpha) + (ema * (1 - alpha))
		values[i] = optional.Some(ema)
	}

	return series, nil
}
