package main

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/coinlab/internal/strategy"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
	"github.com/rxtech-lab/coinlab/pkg/marketdata/provider"
)

// listItem implements list.Item for the strategy list.
type listItem struct {
	id          string
	name        string
	description string
}

func (i listItem) Title() string       { return i.name }
func (i listItem) Description() string { return i.description }
func (i listItem) FilterValue() string { return i.name }

// NewStrategyList creates the strategy selection list in display order.
func NewStrategyList(infos []strategy.Info) list.Model {
	byID := make(map[types.StrategyType]strategy.Info, len(infos))
	for _, info := range infos {
		byID[info.ID] = info
	}

	items := make([]list.Item, 0, len(infos))

	for _, id := range types.AllStrategyTypes() {
		if info, ok := byID[id]; ok {
			items = append(items, listItem{id: string(info.ID), name: info.Name, description: info.Description})
			delete(byID, id)
		}
	}

	// strategies registered beyond the built-ins
	for _, info := range infos {
		if _, ok := byID[info.ID]; ok {
			items = append(items, listItem{id: string(info.ID), name: info.Name, description: info.Description})
		}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(items, delegate, 0, 0)
	l.Title = "Select Strategy"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// NewCoinInput creates the coin text input with the supported coins as suggestions.
func NewCoinInput() textinput.Model {
	coins := provider.SupportedCoins()
	suggestions := make([]string, 0, len(coins))

	for _, coin := range coins {
		suggestions = append(suggestions, coin.ID)
	}

	ti := textinput.New()
	ti.Placeholder = "bitcoin"
	ti.CharLimit = 64
	ti.Width = 40
	ti.Prompt = "> "
	ti.ShowSuggestions = true
	ti.SetSuggestions(suggestions)

	return ti
}

// NewDaysInput creates the days text input.
func NewDaysInput(defaultDays int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(defaultDays)
	ti.CharLimit = 5
	ti.Width = 10
	ti.Prompt = "> "

	return ti
}

// NewSpinner creates the spinner shown while a backtest runs.
func NewSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return s
}

// ParseCoin normalizes a coin identifier.
func ParseCoin(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// ParseDays parses the days input. Empty input yields defaultDays.
func ParseDays(input string, defaultDays int) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultDays, nil
	}

	days, err := strconv.Atoi(input)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrCodeInvalidDays, err, "days must be a whole number, got %q", input)
	}

	if days < 1 {
		return 0, errors.Newf(errors.ErrCodeInvalidDays, "days must be at least 1, got %d", days)
	}

	return days, nil
}

// NewReportTable creates the table that shows a backtest report.
func NewReportTable() table.Model {
	columns := []table.Column{
		{Title: "Metric", Width: 16},
		{Title: "Value", Width: 20},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(8),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// UpdateReportRows fills the table with the metrics of run.
func UpdateReportRows(t table.Model, run types.BacktestRun) table.Model {
	formatted := run.Report.Formatted()

	t.SetRows([]table.Row{
		{"Total return", FormatReturn(formatted.TotalReturn, run.Report.TotalReturn)},
		{"Sharpe ratio", formatted.SharpeRatio},
		{"Max drawdown", formatted.MaxDrawdown},
		{"Win rate", formatted.WinRate},
		{"Total trades", strconv.Itoa(formatted.TotalTrades)},
		{"Winning trades", strconv.Itoa(formatted.WinningTrades)},
		{"Losing trades", strconv.Itoa(run.Report.LosingTrades())},
		{"Data points", strconv.Itoa(run.DataPoints)},
	})

	return t
}
