package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/internal/version"
	"github.com/rxtech-lab/coinlab/pkg/errors"
	"github.com/rxtech-lab/coinlab/pkg/marketdata/provider"
	"go.uber.org/zap"
)

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Provider string `json:"provider"`
}

// backtestResponse carries the run with a display-formatted copy of the report.
// Report is nil when the raw report holds NaN or Inf, which JSON cannot encode.
type backtestResponse struct {
	types.BacktestRun
	Report    *types.BacktestReport `json:"report"`
	Formatted types.FormattedReport `json:"formatted"`
}

type pricesResponse struct {
	Coin   string             `json:"coin"`
	Days   int                `json:"days"`
	Prices []types.PricePoint `json:"prices"`
}

type indicatorPoint struct {
	Time  time.Time `json:"time"`
	Price float64   `json:"price"`
	Value *float64  `json:"value"`
}

type indicatorResponse struct {
	Name   types.IndicatorType `json:"name"`
	Period int                 `json:"period"`
	Coin   string              `json:"coin"`
	Days   int                 `json:"days"`
	Points []indicatorPoint    `json:"points"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Version:  version.GetVersion(),
		Provider: string(s.prices.Name()),
	})
}

// handleBacktest handles GET /api/v1/backtest?strategy=sma&coin=bitcoin&days=30
func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	days, err := parseDays(query.Get("days"), s.defaultDays)
	if err != nil {
		s.writeError(w, err)

		return
	}

	run, err := s.backtester.Run(r.Context(), query.Get("strategy"), query.Get("coin"), days)
	if err != nil {
		s.writeError(w, err)

		return
	}

	response := backtestResponse{
		BacktestRun: run,
		Report:      nil,
		Formatted:   run.Report.Formatted(),
	}

	if run.Report.IsFinite() {
		response.Report = &run.Report
	}

	writeJSON(w, http.StatusOK, response)
}

// handleStrategies handles GET /api/v1/strategies
func (s *Server) handleStrategies(w http.ResponseWriter, _ *http.Request) {
	infos, err := s.backtester.Strategies().Describe()
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, infos)
}

// handleCoins handles GET /api/v1/coins?limit=50
// Without a market listing, or when it fails, the supported coins are returned without prices.
func (s *Server) handleCoins(w http.ResponseWriter, r *http.Request) {
	if s.markets == nil {
		writeJSON(w, http.StatusOK, provider.SupportedCoins())

		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, errors.Wrapf(errors.ErrCodeInvalidParameter, err, "limit must be an integer, got %q", raw))

			return
		}

		limit = parsed
	}

	markets, err := s.markets.GetMarkets(r.Context(), limit)
	if errors.GetCode(err) == errors.ErrCodeInvalidParameter {
		s.writeError(w, err)

		return
	}

	if err != nil {
		s.log.Warn("market listing failed, serving supported coins", zap.Error(err))
		writeJSON(w, http.StatusOK, provider.SupportedCoins())

		return
	}

	writeJSON(w, http.StatusOK, markets)
}

// handlePrices handles GET /api/v1/prices/{coin}?days=30
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	coin := mux.Vars(r)["coin"]

	days, err := parseDays(r.URL.Query().Get("days"), s.defaultDays)
	if err != nil {
		s.writeError(w, err)

		return
	}

	points, err := s.fetchPrices(r.Context(), coin, days)
	if err != nil {
		s.writeError(w, err)

		return
	}

	writeJSON(w, http.StatusOK, pricesResponse{Coin: coin, Days: days, Prices: points})
}

// handleIndicators handles GET /api/v1/indicators
func (s *Server) handleIndicators(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.indicators.ListIndicators())
}

// handleIndicator handles GET /api/v1/indicators/{name}?coin=bitcoin&days=30&period=14
func (s *Server) handleIndicator(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	ind, err := s.indicators.NewIndicator(types.IndicatorType(mux.Vars(r)["name"]))
	if err != nil {
		s.writeError(w, err)

		return
	}

	if raw := query.Get("period"); raw != "" {
		period, convErr := strconv.Atoi(raw)
		if convErr != nil {
			s.writeError(w, errors.Wrapf(errors.ErrCodeInvalidPeriod, convErr, "period must be an integer, got %q", raw))

			return
		}

		if err := ind.Config(period); err != nil {
			s.writeError(w, err)

			return
		}
	}

	coin := query.Get("coin")

	days, err := parseDays(query.Get("days"), s.defaultDays)
	if err != nil {
		s.writeError(w, err)

		return
	}

	points, err := s.fetchPrices(r.Context(), coin, days)
	if err != nil {
		s.writeError(w, err)

		return
	}

	series, err := ind.Calculate(types.ClosingPrices(points))
	if err != nil {
		s.writeError(w, err)

		return
	}

	response := indicatorResponse{
		Name:   series.Name,
		Period: series.Period,
		Coin:   coin,
		Days:   days,
		Points: make([]indicatorPoint, len(points)),
	}

	for i, point := range points {
		response.Points[i] = indicatorPoint{Time: point.Time, Price: point.Price, Value: nil}

		if value := series.At(i); value.IsSome() {
			v := value.Unwrap()
			response.Points[i].Value = &v
		}
	}

	s.log.Debug("indicator calculated",
		zap.String("indicator", string(series.Name)),
		zap.String("coin", coin),
		zap.Int("defined", series.Defined()),
	)

	writeJSON(w, http.StatusOK, response)
}

// fetchPrices checks coin before handing it to the price provider.
func (s *Server) fetchPrices(ctx context.Context, coin string, days int) ([]types.PricePoint, error) {
	if err := types.ValidateCoinID(coin); err != nil {
		return nil, err
	}

	return s.prices.GetHistoricalPrices(ctx, coin, days)
}

// parseDays reads the days query value. Empty means fallback.
func parseDays(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}

	days, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidDays, err, "days must be an integer, got %q", raw)
	}

	if days < 1 {
		return 0, errors.Newf(errors.ErrCodeInvalidDays, "days must be at least 1, got %d", days)
	}

	return days, nil
}
