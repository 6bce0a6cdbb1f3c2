package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rxtech-lab/coinlab/internal/api"
	"github.com/rxtech-lab/coinlab/internal/app"
	"github.com/rxtech-lab/coinlab/internal/config"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func serverAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := app.LoadConfig(cmd.String("config"), func(cfg *config.Config) {
		if cmd.IsSet("addr") {
			cfg.Server.Addr = cmd.String("addr")
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

	markets, _ := coinlab.Client.Markets()

	server := api.NewServer(api.Options{
		Backtester:  coinlab.Backtester,
		Prices:      coinlab.Client.Provider(),
		Markets:     markets,
		Metrics:     coinlab.Metrics,
		DefaultDays: cfg.Backtest.DefaultDays,
	}, coinlab.Log)

	if err := server.Start(cfg.Server.Addr); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	coinlab.Log.Info("shutting down", zap.String("addr", server.Address()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func main() {
	cmd := &cli.Command{
		Name:  "server",
		Usage: "Serve backtests and price history over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a YAML config file",
			},
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address, overrides server.addr",
			},
		},
		Action: serverAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
