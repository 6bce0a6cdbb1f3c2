package types

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultRiskFreeRate is subtracted from the mean period return when computing the Sharpe ratio.
// It is applied directly against raw period returns, not annualized.
const DefaultRiskFreeRate = 0.02

// BacktestReport is the performance summary of one strategy run over one price series.
type BacktestReport struct {
	// TotalReturn in percent. Buy & Hold and RSI report the whole-period return,
	// SMA crossover reports the mean per-trade return.
	TotalReturn float64 `json:"totalReturn" yaml:"total_return"`
	// SharpeRatio over the full period-return series.
	SharpeRatio float64 `json:"sharpeRatio" yaml:"sharpe_ratio"`
	// MaxDrawdown in percent, always <= 0.
	MaxDrawdown float64 `json:"maxDrawdown" yaml:"max_drawdown"`
	// WinRate in percent.
	WinRate float64 `json:"winRate" yaml:"win_rate"`
	// TotalTrades counts closed trades.
	TotalTrades int `json:"totalTrades" yaml:"total_trades"`
	// WinningTrades counts closed trades whose exit price is above the entry price.
	WinningTrades int `json:"winningTrades" yaml:"winning_trades"`
}

// LosingTrades counts closed trades that exited at or below their entry price.
func (r BacktestReport) LosingTrades() int {
	return r.TotalTrades - r.WinningTrades
}

// IsFinite reports whether every numeric field is a finite number.
// A zero price in the series makes the return-based fields NaN or infinite.
func (r BacktestReport) IsFinite() bool {
	for _, v := range []float64{r.TotalReturn, r.SharpeRatio, r.MaxDrawdown, r.WinRate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// FormattedReport is a BacktestReport rendered for display with two decimals.
type FormattedReport struct {
	TotalReturn   string `json:"totalReturn" yaml:"total_return"`
	SharpeRatio   string `json:"sharpeRatio" yaml:"sharpe_ratio"`
	MaxDrawdown   string `json:"maxDrawdown" yaml:"max_drawdown"`
	WinRate       string `json:"winRate" yaml:"win_rate"`
	TotalTrades   int    `json:"totalTrades" yaml:"total_trades"`
	WinningTrades int    `json:"winningTrades" yaml:"winning_trades"`
}

// Formatted renders percentages and the Sharpe ratio with two decimals.
func (r BacktestReport) Formatted() FormattedReport {
	return FormattedReport{
		TotalReturn:   formatFixed(r.TotalReturn) + "%",
		SharpeRatio:   formatFixed(r.SharpeRatio),
		MaxDrawdown:   formatFixed(r.MaxDrawdown) + "%",
		WinRate:       formatFixed(r.WinRate) + "%",
		TotalTrades:   r.TotalTrades,
		WinningTrades: r.WinningTrades,
	}
}

func formatFixed(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}

	return decimal.NewFromFloat(v).StringFixed(2)
}

// BacktestRun wraps a report with the request that produced it.
type BacktestRun struct {
	// ID is the unique identifier for this backtest run.
	ID string `json:"id" yaml:"id"`
	// Timestamp is when this backtest run was executed.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	// RequestedStrategy is the strategy id as given by the caller.
	RequestedStrategy string `json:"requestedStrategy" yaml:"requested_strategy"`
	// Strategy is the strategy that was actually evaluated.
	Strategy StrategyType `json:"strategy" yaml:"strategy"`
	// Fallback is true when RequestedStrategy was unknown and Buy & Hold ran instead.
	Fallback bool `json:"fallback" yaml:"fallback"`
	// CoinID is the market-data identifier of the coin.
	CoinID string `json:"coinId" yaml:"coin_id"`
	// Days is the requested history length.
	Days int `json:"days" yaml:"days"`
	// DataPoints is the number of prices the strategy was evaluated on.
	DataPoints int `json:"dataPoints" yaml:"data_points"`
	// Report is the strategy performance.
	Report BacktestReport `json:"report" yaml:"report"`
}
