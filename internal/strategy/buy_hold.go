package strategy

import (
	"github.com/rxtech-lab/coinlab/internal/types"
)

// BuyHoldParams is empty: buy and hold has nothing to tune.
type BuyHoldParams struct{}

// BuyHold buys at the first price and sells at the last.
type BuyHold struct{}

// NewBuyHold creates the buy and hold evaluator.
func NewBuyHold() Evaluator {
	return &BuyHold{}
}

// Name implements Evaluator.
func (b *BuyHold) Name() types.StrategyType {
	return types.StrategyBuyHold
}

// Description implements Evaluator.
func (b *BuyHold) Description() string {
	return "Buy at the first price and hold until the last"
}

// Parameters implements Evaluator.
func (b *BuyHold) Parameters() any {
	return BuyHoldParams{}
}

// Evaluate implements Evaluator. The run always counts as exactly one trade.
func (b *BuyHold) Evaluate(prices types.PriceSeries) (types.BacktestReport, error) {
	if err := requirePrices(prices, b.Name()); err != nil {
		return types.BacktestReport{}, err
	}

	totalReturn := prices.ChangePercent()
	sharpe, drawdown := seriesRisk(prices)

	report := types.BacktestReport{
		TotalReturn:   totalReturn,
		SharpeRatio:   sharpe,
		MaxDrawdown:   drawdown,
		WinRate:       0,
		TotalTrades:   1,
		WinningTrades: 0,
	}

	if totalReturn > 0 {
		report.WinRate = 100
		report.WinningTrades = 1
	}

	return report, nil
}
