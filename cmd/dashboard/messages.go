package main

import "github.com/rxtech-lab/coinlab/internal/types"

// BacktestDoneMsg carries a finished backtest run.
// Seq identifies the start that produced it.
type BacktestDoneMsg struct {
	Seq int
	Run types.BacktestRun
}

// BacktestErrorMsg indicates the backtest failed.
type BacktestErrorMsg struct {
	Seq int
	Err error
}
