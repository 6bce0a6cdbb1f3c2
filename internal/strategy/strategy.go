// Package strategy holds the built-in backtest strategies. Each evaluator turns a
// price series into a BacktestReport and keeps no state between calls.
package strategy

import (
	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/coinlab/internal/stats"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
)

// Evaluator runs one trading policy over a complete price series.
type Evaluator interface {
	// Name returns the strategy identifier.
	Name() types.StrategyType
	// Description returns a one-line summary for listings.
	Description() string
	// Parameters returns the parameter struct the evaluator runs with.
	Parameters() any
	// Evaluate simulates the strategy over prices, oldest first.
	Evaluate(prices types.PriceSeries) (types.BacktestReport, error)
}

var validate = validator.New()

// requirePrices rejects an empty series, which no evaluator can read a first price from.
func requirePrices(prices types.PriceSeries, strategy types.StrategyType) error {
	if len(prices) == 0 {
		return errors.NewInsufficientDataErrorf(1, 0, "", "%s: price series is empty", strategy)
	}

	return nil
}

// seriesRisk computes the Sharpe ratio and max drawdown over the full price history.
func seriesRisk(prices types.PriceSeries) (sharpe float64, drawdown float64) {
	returns := stats.PeriodReturns(prices)

	return stats.SharpeRatio(returns, types.DefaultRiskFreeRate), stats.MaxDrawdown(prices)
}

// winRate is wins/trades in percent, or 0 without trades.
func winRate(wins, trades int) float64 {
	if trades == 0 {
		return 0
	}

	return float64(wins) / float64(trades) * 100
}
