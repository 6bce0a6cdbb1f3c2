package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/rxtech-lab/coinlab/internal/app"
	"github.com/rxtech-lab/coinlab/internal/config"
	"github.com/rxtech-lab/coinlab/pkg/marketdata"
	"github.com/rxtech-lab/coinlab/pkg/marketdata/provider"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// downloadAction fetches price history and writes it to a parquet file.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := app.LoadConfig(cmd.String("config"), func(cfg *config.Config) {
		if cmd.IsSet("provider") {
			cfg.Provider.Type = provider.ProviderType(cmd.String("provider"))
		}

		if cmd.IsSet("data") || cfg.Provider.DataPath == "" {
			cfg.Provider.DataPath = cmd.String("data")
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

	var bar *progressbar.ProgressBar
	var phase string

	// fetching and writing report in different units, each gets its own bar
	onProgress := func(current float64, total float64, message string) {
		if bar == nil || message != phase {
			if bar != nil {
				_ = bar.Finish()
			}

			bar = progressbar.Default(int64(total), message)
			phase = message
		}

		_ = bar.Set64(int64(current))
	}

	coin := cmd.String("coin")
	log.Printf("Downloading %d days of %s prices using the %s provider...", cmd.Int("days"), coin, cfg.Provider.Type)

	path, err := coinlab.Client.Download(ctx, marketdata.DownloadParams{
		CoinID:  coin,
		Days:    int(cmd.Int("days")),
		Refresh: cmd.Bool("refresh"),
	}, onProgress)
	if err != nil {
		return err
	}

	if bar != nil {
		_ = bar.Finish()
	}

	log.Printf("Saved %s", path)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "download",
		Usage: "Download daily crypto prices to a local parquet file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "coin",
				Aliases:  []string{"c"},
				Usage:    "Coin identifier, e.g. bitcoin",
				Required: true,
			},
			&cli.IntFlag{
				Name:    "days",
				Aliases: []string{"n"},
				Usage:   "Number of days of history",
				Value:   365,
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Price provider (%s, %s, %s)", provider.ProviderCoinGecko, provider.ProviderBinance, provider.ProviderPolygon),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Path to the data output directory",
				Value:   "data",
			},
			&cli.BoolFlag{
				Name:  "refresh",
				Usage: "Drop cached prices of the coin before downloading",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a YAML config file",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
