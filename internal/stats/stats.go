// Package stats computes return, risk and drawdown statistics over price series.
//
// All functions are pure. Division by a zero price is not guarded: it produces
// NaN or ±Inf in the output, which callers can detect with BacktestReport.IsFinite.
package stats

import (
	"math"

	"github.com/rxtech-lab/coinlab/internal/types"
)

// PeriodReturns returns the percentage change of each price over the previous one.
// Element 0 is 0 by convention, so the result has the same length as prices.
func PeriodReturns(prices types.PriceSeries) types.ReturnSeries {
	returns := make(types.ReturnSeries, len(prices))

	for i := 1; i < len(prices); i++ {
		returns[i] = (prices[i] - prices[i-1]) / prices[i-1] * 100
	}

	return returns
}

// SharpeRatio returns (mean - riskFreeRate) / stddev over the raw period returns,
// using the population standard deviation. It returns exactly 0 when the
// standard deviation is 0 or there are no returns.
func SharpeRatio(returns types.ReturnSeries, riskFreeRate float64) float64 {
	if len(returns) == 0 {
		return 0
	}

	n := float64(len(returns))

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= n

	variance := 0.0
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}

	variance /= n

	stdDev := math.Sqrt(variance)
	if stdDev == 0 {
		return 0
	}

	return (mean - riskFreeRate) / stdDev
}

// MaxDrawdown returns the largest peak-to-trough decline in percent as a value <= 0.
// The running peak starts at prices[0]. It returns 0 for an empty or non-decreasing series.
func MaxDrawdown(prices types.PriceSeries) float64 {
	if len(prices) == 0 {
		return 0
	}

	peak := prices[0]
	maxDrawdown := 0.0

	for i := 1; i < len(prices); i++ {
		peak = math.Max(peak, prices[i])

		drawdown := (prices[i] - peak) / peak * 100
		maxDrawdown = math.Min(maxDrawdown, drawdown)
	}

	return maxDrawdown
}
