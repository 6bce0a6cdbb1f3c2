package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/coinlab/internal/strategy"
	"github.com/rxtech-lab/coinlab/internal/types"
)

// Application states.
const (
	StateStrategySelect = iota
	StateCoinInput
	StateDaysInput
	StateRunning
	StateReport
)

// RunFunc runs one backtest. It is backtest.Backtester.Run in production.
type RunFunc func(ctx context.Context, strategyID string, coinID string, days int) (types.BacktestRun, error)

// Model is the main Bubble Tea model for the backtest dashboard.
type Model struct {
	state        int
	strategyList list.Model
	coinInput    textinput.Model
	daysInput    textinput.Model
	spinner      spinner.Model
	reportTable  table.Model
	runBacktest  RunFunc
	defaultDays  int
	strategy     string
	strategyName string
	coin         string
	days         int
	run          types.BacktestRun
	err          error
	width        int
	height       int

	// runSeq increments on every start; results from older starts are dropped.
	runSeq int
	cancel context.CancelFunc
}

// NewModel creates a new Model with initial state.
func NewModel(strategies []strategy.Info, runBacktest RunFunc, defaultDays int) Model {
	return Model{
		state:        StateStrategySelect,
		strategyList: NewStrategyList(strategies),
		coinInput:    NewCoinInput(),
		daysInput:    NewDaysInput(defaultDays),
		spinner:      NewSpinner(),
		reportTable:  NewReportTable(),
		runBacktest:  runBacktest,
		defaultDays:  defaultDays,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.stop()
			return m, tea.Quit
		case "q":
			// Only quit on 'q' if not in text input mode
			if m.state != StateCoinInput && m.state != StateDaysInput {
				m.stop()
				return m, tea.Quit
			}
		case "esc":
			return m.handleEsc()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.strategyList.SetSize(msg.Width, msg.Height-4)
		m.reportTable.SetWidth(msg.Width)
		return m, nil

	case BacktestDoneMsg:
		if m.state != StateRunning || msg.Seq != m.runSeq {
			return m, nil
		}
		m.cancel = nil
		m.run = msg.Run
		m.reportTable = UpdateReportRows(m.reportTable, msg.Run)
		m.state = StateReport
		return m, nil

	case BacktestErrorMsg:
		if m.state != StateRunning || msg.Seq != m.runSeq || errors.Is(msg.Err, context.Canceled) {
			return m, nil
		}
		m.cancel = nil
		m.err = msg.Err
		m.state = StateReport
		return m, nil
	}

	// Delegate to state-specific update
	switch m.state {
	case StateStrategySelect:
		return m.updateStrategySelect(msg)
	case StateCoinInput:
		return m.updateCoinInput(msg)
	case StateDaysInput:
		return m.updateDaysInput(msg)
	case StateRunning:
		return m.updateRunning(msg)
	case StateReport:
		return m.updateReport(msg)
	}

	return m, nil
}

func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m Model) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case StateCoinInput:
		m.coinInput.Blur()
		m.state = StateStrategySelect
	case StateDaysInput:
		m.daysInput.Blur()
		m.err = nil
		m.state = StateCoinInput
		m.coinInput.Focus()
		return m, textinput.Blink
	case StateRunning:
		m.stop()
		m.state = StateDaysInput
		m.daysInput.Focus()
		return m, textinput.Blink
	case StateReport:
		m.run = types.BacktestRun{}
		m.err = nil
		m.coinInput.Reset()
		m.daysInput.Reset()
		m.state = StateStrategySelect
	}
	return m, nil
}

func (m Model) updateStrategySelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if item, ok := m.strategyList.SelectedItem().(listItem); ok {
			m.strategy = item.id
			m.strategyName = item.name
			m.state = StateCoinInput
			m.coinInput.Focus()
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.strategyList, cmd = m.strategyList.Update(msg)
	return m, cmd
}

func (m Model) updateCoinInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		if coin := ParseCoin(m.coinInput.Value()); coin != "" {
			m.coin = coin
			m.coinInput.Blur()
			m.state = StateDaysInput
			m.daysInput.Focus()
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.coinInput, cmd = m.coinInput.Update(msg)
	return m, cmd
}

func (m Model) updateDaysInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		days, err := ParseDays(m.daysInput.Value(), m.defaultDays)
		if err != nil {
			m.err = err
			return m, nil
		}

		m.days = days
		m.err = nil
		m.daysInput.Blur()
		m.state = StateRunning

		ctx, cancel := context.WithCancel(context.Background())
		m.cancel = cancel
		m.runSeq++

		return m, tea.Batch(m.spinner.Tick, startBacktest(ctx, m.runSeq, m.runBacktest, m.strategy, m.coin, m.days))
	}

	var cmd tea.Cmd
	m.daysInput, cmd = m.daysInput.Update(msg)
	return m, cmd
}

func (m Model) updateRunning(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m Model) updateReport(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.reportTable, cmd = m.reportTable.Update(msg)
	return m, cmd
}

// startBacktest returns a command that runs the backtest off the UI goroutine.
func startBacktest(ctx context.Context, seq int, runBacktest RunFunc, strategyID string, coinID string, days int) tea.Cmd {
	return func() tea.Msg {
		if runBacktest == nil {
			return BacktestErrorMsg{Seq: seq, Err: fmt.Errorf("no backtest runner configured")}
		}

		run, err := runBacktest(ctx, strategyID, coinID, days)
		if err != nil {
			return BacktestErrorMsg{Seq: seq, Err: err}
		}

		return BacktestDoneMsg{Seq: seq, Run: run}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateStrategySelect:
		s.WriteString(TitleStyle.Render("Coinlab - Strategy Backtester"))
		s.WriteString("\n\n")
		s.WriteString(m.strategyList.View())
		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Press Enter to select, q to quit"))

	case StateCoinInput:
		s.WriteString(TitleStyle.Render("Enter Coin"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Coin to backtest %s on (e.g., bitcoin, ethereum, cardano):\n\n", m.strategyName))
		s.WriteString(m.coinInput.View())
		s.WriteString("\n\n")
		s.WriteString(HelpStyle.Render("Press Enter to confirm, Tab to complete, Esc to go back"))

	case StateDaysInput:
		s.WriteString(TitleStyle.Render("Enter Days"))
		s.WriteString("\n\n")
		s.WriteString(fmt.Sprintf("Days of %s history (default %d):\n\n", m.coin, m.defaultDays))
		s.WriteString(m.daysInput.View())
		s.WriteString("\n\n")

		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		}

		s.WriteString(HelpStyle.Render("Press Enter to run, Esc to go back"))

	case StateRunning:
		s.WriteString(fmt.Sprintf("%s Running %s on %s over %d days...\n\n", m.spinner.View(), m.strategyName, m.coin, m.days))
		s.WriteString(HelpStyle.Render("Esc: cancel"))

	case StateReport:
		s.WriteString(TitleStyle.Render(fmt.Sprintf("Backtest Report - %s (%s, %d days)", m.strategyName, m.coin, m.days)))
		s.WriteString("\n\n")

		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		} else {
			if m.run.Fallback {
				s.WriteString(NoticeStyle.Render(fmt.Sprintf("Unknown strategy %q, showing %s", m.run.RequestedStrategy, m.run.Strategy.DisplayName())))
				s.WriteString("\n\n")
			}

			s.WriteString(m.reportTable.View())
			s.WriteString("\n")
		}

		s.WriteString(HelpStyle.Render("q: quit | Esc: new backtest"))
	}

	return s.String()
}
