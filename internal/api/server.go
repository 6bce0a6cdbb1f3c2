// Package api serves backtests, strategy listings and price history over HTTP.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rxtech-lab/coinlab/internal/backtest"
	"github.com/rxtech-lab/coinlab/internal/indicator"
	"github.com/rxtech-lab/coinlab/internal/logger"
	"github.com/rxtech-lab/coinlab/internal/metrics"
	"github.com/rxtech-lab/coinlab/pkg/marketdata/provider"
	"go.uber.org/zap"
)

// DefaultDays is used when a request omits days.
const DefaultDays = 30

// Options configures a Server.
type Options struct {
	// Backtester runs backtest requests. Required.
	Backtester *backtest.Backtester
	// Prices serves the chart and indicator endpoints. Required.
	Prices provider.Provider
	// Markets adds live prices to /api/v1/coins. Nil lists the supported coins only.
	Markets provider.MarketLister
	// Indicators backs the indicator endpoints. Defaults to the built-in indicators.
	Indicators indicator.IndicatorRegistry
	// Metrics exposes /metrics when set.
	Metrics *metrics.Collector
	// DefaultDays replaces DefaultDays when positive.
	DefaultDays int
}

// Server is the HTTP front end of the backtester.
type Server struct {
	backtester  *backtest.Backtester
	prices      provider.Provider
	markets     provider.MarketLister
	indicators  indicator.IndicatorRegistry
	metrics     *metrics.Collector
	defaultDays int
	log         *logger.Logger
	router      *mux.Router
	httpServer  *http.Server
	listener    net.Listener
}

// NewServer creates a server and registers its routes.
func NewServer(options Options, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNopLogger()
	}

	defaultDays := options.DefaultDays
	if defaultDays <= 0 {
		defaultDays = DefaultDays
	}

	indicators := options.Indicators
	if indicators == nil {
		indicators = indicator.NewDefaultRegistry()
	}

	s := &Server{
		backtester:  options.Backtester,
		prices:      options.Prices,
		markets:     options.Markets,
		indicators:  indicators,
		metrics:     options.Metrics,
		defaultDays: defaultDays,
		log:         log,
		router:      mux.NewRouter(),
		httpServer:  nil,
		listener:    nil,
	}

	s.routes()

	return s
}

func (s *Server) routes() {
	s.router.Use(s.logRequests)

	s.router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/backtest", s.handleBacktest).Methods(http.MethodGet)
	v1.HandleFunc("/strategies", s.handleStrategies).Methods(http.MethodGet)
	v1.HandleFunc("/coins", s.handleCoins).Methods(http.MethodGet)
	v1.HandleFunc("/prices/{coin}", s.handlePrices).Methods(http.MethodGet)
	v1.HandleFunc("/indicators", s.handleIndicators).Methods(http.MethodGet)
	v1.HandleFunc("/indicators/{name}", s.handleIndicator).Methods(http.MethodGet)

	if s.metrics != nil {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on address and serves in the background.
// An empty address or ":0" picks a free port.
func (s *Server) Start(address string) error {
	if address == "" {
		address = ":0"
	}

	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("http server stopped", zap.Error(err))
		}
	}()

	s.log.Info("http server listening", zap.String("addr", listener.Addr().String()))

	return nil
}

// Address returns the address the server is listening on.
func (s *Server) Address() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Shutdown stops accepting requests and waits for in-flight ones until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.log.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", recorder.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
