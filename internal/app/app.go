// Package app wires configuration, logging, market data and the backtester
// together for the coinlab commands.
package app

import (
	"github.com/rxtech-lab/coinlab/internal/backtest"
	"github.com/rxtech-lab/coinlab/internal/config"
	"github.com/rxtech-lab/coinlab/internal/logger"
	"github.com/rxtech-lab/coinlab/internal/metrics"
	"github.com/rxtech-lab/coinlab/pkg/marketdata"
	"go.uber.org/zap"
)

// App holds the long-lived components shared by a command.
type App struct {
	Config     config.Config
	Log        *logger.Logger
	Client     *marketdata.Client
	Metrics    *metrics.Collector
	Backtester *backtest.Backtester
}

// Override adjusts a loaded configuration, typically from command-line flags.
type Override func(cfg *config.Config)

// LoadConfig loads configPath, applies overrides in order and validates the result.
func LoadConfig(configPath string, overrides ...Override) (config.Config, error) {
	cfg, err := config.LoadUnvalidated(configPath)
	if err != nil {
		return config.Config{}, err
	}

	for _, override := range overrides {
		override(&cfg)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}

	return cfg, nil
}

// New builds every component from cfg.
func New(cfg config.Config) (*App, error) {
	log, err := logger.NewLoggerWithLevel(cfg.Logging.Level)
	if err != nil {
		return nil, err
	}

	return NewWithLogger(cfg, log)
}

// NewWithLogger builds every component from cfg using log.
func NewWithLogger(cfg config.Config, log *logger.Logger) (*App, error) {
	client, err := marketdata.NewClient(cfg.ClientConfig(), log)
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector()

	backtester := backtest.NewBacktester(client.Provider(), log, backtest.Options{
		StrictStrategy: cfg.Backtest.StrictStrategy,
		Registry:       nil,
		Metrics:        collector,
		Callbacks:      backtest.LifecycleCallbacks{},
	})

	log.Debug("coinlab initialized",
		zap.String("provider", string(cfg.Provider.Type)),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Bool("strict_strategy", cfg.Backtest.StrictStrategy),
	)

	return &App{
		Config:     cfg,
		Log:        log,
		Client:     client,
		Metrics:    collector,
		Backtester: backtester,
	}, nil
}

// Close releases market data connections and flushes the logger.
func (a *App) Close() error {
	err := a.Client.Close()
	_ = a.Log.Sync()

	return err
}
