package strategy

import (
	"github.com/rxtech-lab/coinlab/internal/indicator"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
)

// SMACrossoverParams configures the moving average windows.
type SMACrossoverParams struct {
	Short int `json:"short" yaml:"short" jsonschema:"title=Short period,description=Fast moving average window in days,default=10,minimum=1" validate:"required,gt=0,ltfield=Long"`
	Long  int `json:"long" yaml:"long" jsonschema:"title=Long period,description=Slow moving average window in days,default=20,minimum=2" validate:"required,gt=0"`
}

// DefaultSMACrossoverParams returns the 10/20 day windows.
func DefaultSMACrossoverParams() SMACrossoverParams {
	return SMACrossoverParams{Short: 10, Long: 20}
}

// SMACrossover is long while the short SMA is above the long SMA.
//
// The reported total return is the mean of the per-trade returns, not a
// compounded portfolio return. Sharpe ratio and drawdown are taken over the
// whole price history regardless of when trades were open.
type SMACrossover struct {
	params SMACrossoverParams
}

// NewSMACrossover creates the evaluator with the default 10/20 day windows.
func NewSMACrossover() Evaluator {
	return &SMACrossover{params: DefaultSMACrossoverParams()}
}

// NewSMACrossoverWithParams creates the evaluator with custom windows.
func NewSMACrossoverWithParams(params SMACrossoverParams) (Evaluator, error) {
	if err := validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStrategyConfigError, "invalid SMA crossover parameters", err)
	}

	return &SMACrossover{params: params}, nil
}

// Name implements Evaluator.
func (s *SMACrossover) Name() types.StrategyType {
	return types.StrategySMACrossover
}

// Description implements Evaluator.
func (s *SMACrossover) Description() string {
	return "Enter when the short SMA crosses above the long SMA, exit when it crosses below"
}

// Parameters implements Evaluator.
func (s *SMACrossover) Parameters() any {
	return s.params
}

// Evaluate implements Evaluator.
//
// Scanning starts at index Long. A position still open at the end of the
// series is closed at the last price and counted as a trade. A series too
// short to reach index Long produces no trades.
func (s *SMACrossover) Evaluate(prices types.PriceSeries) (types.BacktestReport, error) {
	if err := requirePrices(prices, s.Name()); err != nil {
		return types.BacktestReport{}, err
	}

	shortSMA, err := indicator.SMA(prices, s.params.Short)
	if err != nil {
		return types.BacktestReport{}, err
	}

	longSMA, err := indicator.SMA(prices, s.params.Long)
	if err != nil {
		return types.BacktestReport{}, err
	}

	var (
		open   *types.Position
		closed []*types.Position
	)

	for i := s.params.Long; i < len(prices); i++ {
		short, shortErr := shortSMA.At(i).Take()
		long, longErr := longSMA.At(i).Take()

		if shortErr != nil || longErr != nil {
			continue
		}

		if short > long && open == nil {
			open = types.OpenPosition(i, prices[i])
		} else if short < long && open != nil {
			open.Close(i, prices[i])
			closed = append(closed, open)
			open = nil
		}
	}

	if open != nil {
		last := len(prices) - 1
		open.Close(last, prices[last])
		open.Forced = true
		closed = append(closed, open)
	}

	wins := 0
	returnSum := 0.0

	for _, p := range closed {
		if p.IsWin() {
			wins++
		}

		returnSum += p.ReturnPercent().Unwrap()
	}

	sharpe, drawdown := seriesRisk(prices)

	return types.BacktestReport{
		TotalReturn:   returnSum / float64(max(1, len(closed))),
		SharpeRatio:   sharpe,
		MaxDrawdown:   drawdown,
		WinRate:       winRate(wins, len(closed)),
		TotalTrades:   len(closed),
		WinningTrades: wins,
	}, nil
}
