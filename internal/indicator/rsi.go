package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
)

// rsiFlatLossRS is the relative strength used when there has been no loss yet.
// It yields an RSI of 100 - 100/101 (about 99.0099) rather than 100.
const rsiFlatLossRS = 100.0

// RSIIndicator represents the Relative Strength Index indicator.
type RSIIndicator struct {
	period int
}

// NewRSIIndicator creates a new RSI indicator with default configuration.
func NewRSIIndicator() Indicator {
	return &RSIIndicator{
		period: 14, // Default period
	}
}

// Name returns the name of the indicator.
func (r *RSIIndicator) Name() types.IndicatorType {
	return types.IndicatorTypeRSI
}

// Config configures the RSI indicator. Expected parameters: period (int).
func (r *RSIIndicator) Config(params ...any) error {
	if len(params) < 1 {
		return errors.New(errors.ErrCodeMissingParameter, "Config expects at least 1 parameter: period (int)")
	}

	period, ok := periodFromParam(params[0])
	if !ok {
		return errors.New(errors.ErrCodeInvalidType, "invalid type for period parameter, expected int")
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	r.period = period

	return nil
}

// Calculate implements Indicator.
func (r *RSIIndicator) Calculate(prices types.PriceSeries) (types.IndicatorSeries, error) {
	return RSI(prices, r.period)
}

// RSI returns the relative strength index of prices.
//
// Gains and losses accumulate from the start of the series rather than over a
// rolling window; both are divided by period to form the averages. A zero
// price change counts as a gain of 0. The first value is emitted at price
// index period and one value follows for every later price, so the result
// has Offset period and no None entries.
func RSI(prices types.PriceSeries, period int) (types.IndicatorSeries, error) {
	if period <= 0 {
		return types.IndicatorSeries{}, errors.Newf(errors.ErrCodeInvalidPeriod, "period must be a positive integer, got %d", period)
	}

	values := make([]optional.Option[float64], 0, max(0, len(prices)-period))

	gains := 0.0
	losses := 0.0

	for i := 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change >= 0 {
			gains += change
		} else {
			losses -= change
		}

		if i < period {
			continue
		}

		avgGain := gains / float64(period)
		avgLoss := losses / float64(period)

		rs := rsiFlatLossRS
		if avgLoss != 0 {
			rs = avgGain / avgLoss
		}

		values = append(values, optional.Some(100-(100/(1+rs))))
	}

	return types.IndicatorSeries{
		Name:   types.IndicatorTypeRSI,
		Period: period,
		Offset: period,
		Values: values,
	}, nil
}
