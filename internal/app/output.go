package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how a backtest run is printed.
type OutputFormat string

const (
	OutputYAML  OutputFormat = "yaml"
	OutputJSON  OutputFormat = "json"
	OutputTable OutputFormat = "table"
)

// ParseOutputFormat validates a user-supplied output format.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputYAML, OutputJSON, OutputTable:
		return OutputFormat(s), nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidParameter, "unknown output format %q, expected yaml, json or table", s)
	}
}

// jsonRun drops the raw report when it cannot be encoded as JSON.
type jsonRun struct {
	types.BacktestRun
	Report    *types.BacktestReport `json:"report"`
	Formatted types.FormattedReport `json:"formatted"`
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

// WriteRun prints run to w in the given format.
func WriteRun(w io.Writer, run types.BacktestRun, format OutputFormat) error {
	switch format {
	case OutputYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)

		if err := encoder.Encode(run); err != nil {
			return fmt.Errorf("failed to encode run as yaml: %w", err)
		}

		return encoder.Close()

	case OutputJSON:
		out := jsonRun{BacktestRun: run, Report: nil, Formatted: run.Report.Formatted()}
		if run.Report.IsFinite() {
			out.Report = &run.Report
		}

		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(out); err != nil {
			return fmt.Errorf("failed to encode run as json: %w", err)
		}

		return nil

	case OutputTable:
		_, err := fmt.Fprintln(w, RenderRunTable(run))

		return err

	default:
		return errors.Newf(errors.ErrCodeInvalidParameter, "unknown output format %q", format)
	}
}

// RenderRunTable renders the formatted report as a two-column table.
func RenderRunTable(run types.BacktestRun) string {
	formatted := run.Report.Formatted()

	strategy := run.Strategy.DisplayName()
	if run.Fallback {
		strategy += fmt.Sprintf(" (fallback from %q)", run.RequestedStrategy)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers("Metric", "Value").
		Rows(
			[]string{"Strategy", strategy},
			[]string{"Coin", run.CoinID},
			[]string{"Days", strconv.Itoa(run.Days)},
			[]string{"Data points", strconv.Itoa(run.DataPoints)},
			[]string{"Total return", formatted.TotalReturn},
			[]string{"Sharpe ratio", formatted.SharpeRatio},
			[]string{"Max drawdown", formatted.MaxDrawdown},
			[]string{"Win rate", formatted.WinRate},
			[]string{"Total trades", strconv.Itoa(formatted.TotalTrades)},
			[]string{"Winning trades", strconv.Itoa(formatted.WinningTrades)},
		)

	return t.String()
}
