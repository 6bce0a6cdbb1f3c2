package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/coinlab/internal/app"
	"github.com/rxtech-lab/coinlab/internal/logger"
	"github.com/urfave/cli/v3"
)

func dashboardAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := app.LoadConfig(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// log lines would corrupt the terminal UI
	coinlab, err := app.NewWithLogger(cfg, logger.NewNopLogger())
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer coinlab.Close()

	strategies, err := coinlab.Backtester.Strategies().Describe()
	if err != nil {
		return err
	}

	model := NewModel(strategies, coinlab.Backtester.Run, cfg.Backtest.DefaultDays)

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("dashboard failed: %w", err)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "dashboard",
		Usage: "Interactive terminal backtester",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a YAML config file",
			},
		},
		Action: dashboardAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
