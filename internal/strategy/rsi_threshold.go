package strategy

import (
	"github.com/rxtech-lab/coinlab/internal/indicator"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
)

// RSIThresholdParams configures the RSI period and the entry/exit levels.
type RSIThresholdParams struct {
	Period     int     `json:"period" yaml:"period" jsonschema:"title=Period,description=RSI period in days,default=14,minimum=1" validate:"required,gt=0"`
	Oversold   float64 `json:"oversold" yaml:"oversold" jsonschema:"title=Oversold,description=Enter below this RSI,default=30,minimum=0,maximum=100" validate:"gte=0,lte=100,ltfield=Overbought"`
	Overbought float64 `json:"overbought" yaml:"overbought" jsonschema:"title=Overbought,description=Exit above this RSI,default=70,minimum=0,maximum=100" validate:"gte=0,lte=100"`
}

// DefaultRSIThresholdParams returns period 14 with 30/70 levels.
func DefaultRSIThresholdParams() RSIThresholdParams {
	return RSIThresholdParams{Period: 14, Oversold: 30, Overbought: 70}
}

// RSIThreshold buys when RSI drops below Oversold and sells when it rises above Overbought.
//
// The reported total return is the whole-period price change, independent of
// the trades taken. A position still open when the series ends is not counted.
type RSIThreshold struct {
	params RSIThresholdParams
}

// NewRSIThreshold creates the evaluator with default parameters.
func NewRSIThreshold() Evaluator {
	return &RSIThreshold{params: DefaultRSIThresholdParams()}
}

// NewRSIThresholdWithParams creates the evaluator with custom parameters.
func NewRSIThresholdWithParams(params RSIThresholdParams) (Evaluator, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid RSI threshold parameters", err)
	}

	return &RSIThreshold{params: params}, nil
}

// Name implements Evaluator.
func (r *RSIThreshold) Name() types.StrategyType {
	return types.StrategyRSIThreshold
}

// Description implements Evaluator.
func (r *RSIThreshold) Description() string {
	return "Buy when RSI is oversold, sell when RSI is overbought"
}

// Parameters implements Evaluator.
func (r *RSIThreshold) Parameters() any {
	return r.params
}

// Evaluate implements Evaluator.
//
// The scan walks the stored RSI values by their own index j, starting at
// Period+1, and trades at prices[j]. This keeps the established pairing of
// the RSI sequence with the price series; the RSI value at j was computed at
// prices[j+Period].
func (r *RSIThreshold) Evaluate(prices types.PriceSeries) (types.BacktestReport, error) {
	if err := requirePrices(prices, r.Name()); err != nil {
		return types.BacktestReport{}, err
	}

	rsi, err := indicator.RSI(prices, r.params.Period)
	if err != nil {
		return types.BacktestReport{}, err
	}

	var open *types.Position

	trades := 0
	wins := 0

	for j := r.params.Period + 1; j < rsi.Len(); j++ {
		value, valueErr := rsi.Raw(j).Take()
		if valueErr != nil {
			continue
		}

		if value < r.params.Oversold && open == nil {
			open = types.OpenPosition(j, prices[j])
		} else if value > r.params.Overbought && open != nil {
			open.Close(j, prices[j])

			trades++
			if open.IsWin() {
				wins++
			}

			open = nil
		}
	}

	sharpe, drawdown := seriesRisk(prices)

	return types.BacktestReport{
		TotalReturn:   prices.ChangePercent(),
		SharpeRatio:   sharpe,
		MaxDrawdown:   drawdown,
		WinRate:       winRate(wins, trades),
		TotalTrades:   trades,
		WinningTrades: wins,
	}, nil
}
