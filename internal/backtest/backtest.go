// Package backtest runs one strategy over one coin's recent price history.
package backtest

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rxtech-lab/coinlab/internal/logger"
	"github.com/rxtech-lab/coinlab/internal/metrics"
	"github.com/rxtech-lab/coinlab/internal/strategy"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
	"github.com/rxtech-lab/coinlab/pkg/marketdata/provider"
	"go.uber.org/zap"
)

// OnRunStartCallback is called once the strategy is resolved, before prices are fetched.
// Returning an error aborts the run.
type OnRunStartCallback func(runID string, strategyType types.StrategyType, coinID string, days int) error

// OnPricesFetchedCallback is called after the price history has been fetched.
type OnPricesFetchedCallback func(runID string, points int)

// OnRunEndCallback is called when a run finishes, successfully or not.
// run is the zero value when err is not nil.
type OnRunEndCallback func(run types.BacktestRun, err error)

// LifecycleCallbacks holds optional callbacks for the phases of a run.
// A nil field means the callback is not invoked.
type LifecycleCallbacks struct {
	OnRunStart      *OnRunStartCallback
	OnPricesFetched *OnPricesFetchedCallback
	OnRunEnd        *OnRunEndCallback
}

const unresolvedStrategy types.StrategyType = "unresolved"

// Options configures a Backtester.
type Options struct {
	// StrictStrategy rejects unknown strategy ids instead of running Buy & Hold.
	StrictStrategy bool
	// Registry resolves strategy ids. Nil uses strategy.NewDefaultRegistry.
	Registry *strategy.Registry
	// Metrics receives run and fetch observations. Nil disables metrics.
	Metrics *metrics.Collector
	// Callbacks are invoked around every run.
	Callbacks LifecycleCallbacks
}

// Backtester fetches price history and dispatches it to a strategy evaluator.
// It holds no per-run state and is safe for concurrent use.
type Backtester struct {
	provider   provider.Provider
	strategies *strategy.Registry
	log        *logger.Logger
	metrics    *metrics.Collector
	options    Options
	now        func() time.Time
}

// NewBacktester creates a Backtester reading prices from marketProvider.
func NewBacktester(marketProvider provider.Provider, log *logger.Logger, options Options) *Backtester {
	registry := options.Registry
	if registry == nil {
		registry = strategy.NewDefaultRegistry()
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Backtester{
		provider:   marketProvider,
		strategies: registry,
		log:        log,
		metrics:    options.Metrics,
		options:    options,
		now:        time.Now,
	}
}

// Strategies returns the registry the backtester resolves strategy ids with.
func (b *Backtester) Strategies() *strategy.Registry {
	return b.strategies
}

// RunBacktest runs strategyID over the last days days of coinID and returns only the report.
func (b *Backtester) RunBacktest(ctx context.Context, strategyID string, coinID string, days int) (types.BacktestReport, error) {
	run, err := b.Run(ctx, strategyID, coinID, days)
	if err != nil {
		return types.BacktestReport{}, err
	}

	return run.Report, nil
}

// Run runs strategyID over the last days days of coinID.
//
// An unknown strategyID runs Buy & Hold and sets Fallback on the result,
// unless StrictStrategy is set. Provider errors caused by the request, such as
// an unsupported coin, are returned as is. Other provider failures are returned
// as ErrCodeDataUnavailable and an empty history as an InsufficientDataError.
func (b *Backtester) Run(ctx context.Context, strategyID string, coinID string, days int) (run types.BacktestRun, err error) {
	runID := uuid.New().String()
	// metric label until the strategy is resolved
	evaluated := unresolvedStrategy

	defer func() {
		b.observe(evaluated, err)

		if b.options.Callbacks.OnRunEnd != nil {
			(*b.options.Callbacks.OnRunEnd)(run, err)
		}
	}()

	if b.provider == nil {
		return types.BacktestRun{}, errors.New(errors.ErrCodeBacktestNoProvider, "backtester has no market data provider")
	}

	if err := types.ValidateCoinID(coinID); err != nil {
		return types.BacktestRun{}, err
	}

	if days < 1 {
		return types.BacktestRun{}, errors.Newf(errors.ErrCodeInvalidDays, "days must be at least 1, got %d", days)
	}

	evaluator, found := b.strategies.Resolve(strategyID)
	if !found {
		if b.options.StrictStrategy {
			return types.BacktestRun{}, errors.Newf(errors.ErrCodeInvalidStrategy, "unknown strategy %q", strategyID)
		}

		b.log.Warn("unknown strategy, falling back to buy and hold",
			zap.String("requested", strategyID),
			zap.String("run_id", runID),
		)

		if b.metrics != nil {
			b.metrics.ObserveFallback()
		}
	}

	evaluated = evaluator.Name()

	if b.options.Callbacks.OnRunStart != nil {
		if err := (*b.options.Callbacks.OnRunStart)(runID, evaluated, coinID, days); err != nil {
			return types.BacktestRun{}, err
		}
	}

	started := b.now()

	points, err := b.fetch(ctx, coinID, days)
	if err != nil {
		return types.BacktestRun{}, err
	}

	if b.options.Callbacks.OnPricesFetched != nil {
		(*b.options.Callbacks.OnPricesFetched)(runID, len(points))
	}

	prices := types.ClosingPrices(points)
	if len(prices) == 0 {
		return types.BacktestRun{}, errors.NewInsufficientDataErrorf(1, 0, coinID, "no price history for %s over %d days", coinID, days)
	}

	if b.metrics != nil {
		b.metrics.ObservePricePoints(len(prices))
	}

	report, err := evaluator.Evaluate(prices)
	if err != nil {
		return types.BacktestRun{}, err
	}

	if !report.IsFinite() {
		b.log.Warn("report contains non-finite values, the price history likely has a zero price",
			zap.String("run_id", runID),
			zap.String("coin", coinID),
		)
	}

	b.log.Info("backtest finished",
		zap.String("run_id", runID),
		zap.String("strategy", string(evaluated)),
		zap.String("coin", coinID),
		zap.Int("days", days),
		zap.Int("points", len(prices)),
		zap.Float64("total_return", report.TotalReturn),
		zap.Int("trades", report.TotalTrades),
	)

	return types.BacktestRun{
		ID:                runID,
		Timestamp:         started,
		RequestedStrategy: strategyID,
		Strategy:          evaluated,
		Fallback:          !found,
		CoinID:            coinID,
		Days:              days,
		DataPoints:        len(prices),
		Report:            report,
	}, nil
}

func (b *Backtester) fetch(ctx context.Context, coinID string, days int) ([]types.PricePoint, error) {
	start := time.Now()
	points, err := b.provider.GetHistoricalPrices(ctx, coinID, days)

	if b.metrics != nil {
		b.metrics.ObserveFetch(string(b.provider.Name()), time.Since(start))
	}

	if err != nil {
		b.log.Error("failed to fetch price history",
			zap.String("coin", coinID),
			zap.Int("days", days),
			zap.Error(err),
		)

		if isClientError(err) {
			return nil, err
		}

		return nil, errors.Wrapf(errors.ErrCodeDataUnavailable, err, "price history for %s is unavailable", coinID)
	}

	return points, nil
}

// isClientError reports provider errors caused by the request rather than the source.
func isClientError(err error) bool {
	switch errors.GetCode(err) {
	case errors.ErrCodeUnsupportedCoin,
		errors.ErrCodeInvalidDays,
		errors.ErrCodeInvalidParameter,
		errors.ErrCodeMissingParameter,
		errors.ErrCodeDataNotFound:
		return true
	default:
		return false
	}
}

func (b *Backtester) observe(evaluated types.StrategyType, err error) {
	if b.metrics == nil {
		return
	}

	b.metrics.ObserveBacktest(string(evaluated), outcomeOf(err))
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.IsInsufficientDataError(err):
		return metrics.OutcomeInsufficientData
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeDataUnavailable, errors.ErrCodeDataNotFound:
		return metrics.OutcomeDataUnavailable
	case errors.ErrCodeMissingParameter,
		errors.ErrCodeInvalidParameter,
		errors.ErrCodeInvalidDays,
		errors.ErrCodeInvalidStrategy,
		errors.ErrCodeUnsupportedCoin:
		return metrics.OutcomeInvalidRequest
	default:
		return metrics.OutcomeError
	}
}
