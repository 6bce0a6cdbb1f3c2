package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rxtech-lab/coinlab/internal/app"
	"github.com/rxtech-lab/coinlab/internal/config"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/marketdata"
	"github.com/rxtech-lab/coinlab/pkg/marketdata/provider"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// backtestAction runs one backtest and prints the result.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	format, err := app.ParseOutputFormat(cmd.String("output"))
	if err != nil {
		return err
	}

	cfg, err := app.LoadConfig(cmd.String("config"), func(cfg *config.Config) {
		if cmd.IsSet("provider") {
			cfg.Provider.Type = provider.ProviderType(cmd.String("provider"))
		}

		if cmd.IsSet("data") {
			cfg.Provider.DataPath = cmd.String("data")
		}

		if cmd.Bool("strict") {
			cfg.Backtest.StrictStrategy = true
		}
	})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	coinlab, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer coinlab.Close()

	days := int(cmd.Int("days"))
	if days == 0 {
		days = cfg.Backtest.DefaultDays
	}

	run, err := coinlab.Backtester.Run(ctx, cmd.String("strategy"), cmd.String("coin"), days)
	if err != nil {
		return err
	}

	coinlab.Log.Debug("backtest complete", zap.String("run_id", run.ID))

	return app.WriteRun(os.Stdout, run, format)
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Backtest a strategy against recent daily crypto prices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "strategy",
				Aliases: []string{"s"},
				Usage: fmt.Sprintf("Strategy to run (%s, %s, %s). Unknown strategies run %s unless --strict is set",
					types.StrategyBuyHold, types.StrategySMACrossover, types.StrategyRSIThreshold, types.StrategyBuyHold.DisplayName()),
				Value: string(types.StrategySMACrossover),
			},
			&cli.StringFlag{
				Name:    "coin",
				Aliases: []string{"c"},
				Usage:   "Coin identifier, e.g. bitcoin, ethereum, cardano",
				Value:   "bitcoin",
			},
			&cli.IntFlag{
				Name:    "days",
				Aliases: []string{"d"},
				Usage:   "Number of days of history. Defaults to backtest.default_days from the config",
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Price provider (%v)", marketdata.GetSupportedProviders()),
			},
			&cli.StringFlag{
				Name:  "data",
				Usage: "Directory of downloaded parquet files, used by the duckdb provider",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output format: yaml, json or table",
				Value:   string(app.OutputTable),
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Fail on unknown strategies instead of falling back",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
