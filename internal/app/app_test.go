package app

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/coinlab/internal/config"
	"github.com/rxtech-lab/coinlab/internal/logger"
	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
	"github.com/rxtech-lab/coinlab/pkg/marketdata/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleRun() types.BacktestRun {
	return types.BacktestRun{
		ID:                "run-1",
		Timestamp:         time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		RequestedStrategy: "sma",
		Strategy:          types.StrategySMACrossover,
		Fallback:          false,
		CoinID:            "bitcoin",
		Days:              30,
		DataPoints:        30,
		Report: types.BacktestReport{
			TotalReturn:   12.345,
			SharpeRatio:   0.5,
			MaxDrawdown:   -8.1,
			WinRate:       50,
			TotalTrades:   4,
			WinningTrades: 2,
		},
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider:\n  type: polygon\n"), 0o600))
	t.Setenv("POLYGON_API_KEY", "")

	_, err := LoadConfig(path)
	assert.Equal(t, errors.ErrCodeInvalidConfiguration, errors.GetCode(err))

	cfg, err := LoadConfig(path, func(cfg *config.Config) {
		cfg.Provider.PolygonAPIKey = "from-flag"
	})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.Provider.PolygonAPIKey)
}

func TestNewWithLogger(t *testing.T) {
	cfg := config.Default()
	cfg.Provider.Type = provider.ProviderDuckDB
	cfg.Provider.DataPath = t.TempDir()

	a, err := NewWithLogger(cfg, logger.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, provider.ProviderDuckDB, a.Client.Provider().Name())
	assert.NotNil(t, a.Metrics)
	assert.Len(t, a.Backtester.Strategies().List(), 3)
	assert.NoError(t, a.Close())
}

func TestParseOutputFormat(t *testing.T) {
	for _, s := range []string{"yaml", "json", "table"} {
		format, err := ParseOutputFormat(s)
		require.NoError(t, err)
		assert.Equal(t, OutputFormat(s), format)
	}

	_, err := ParseOutputFormat("csv")
	assert.Equal(t, errors.ErrCodeInvalidParameter, errors.GetCode(err))
}

func TestWriteRunYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRun(&buf, sampleRun(), OutputYAML))

	var decoded types.BacktestRun
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, sampleRun(), decoded)
}

func TestWriteRunJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRun(&buf, sampleRun(), OutputJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "sma", decoded["strategy"])

	report := decoded["report"].(map[string]any)
	assert.InDelta(t, 12.345, report["totalReturn"], 1e-9)

	formatted := decoded["formatted"].(map[string]any)
	assert.Equal(t, "12.35%", formatted["totalReturn"])
}

func TestWriteRunJSONNonFinite(t *testing.T) {
	run := sampleRun()
	run.Report.TotalReturn = math.Inf(1)

	var buf bytes.Buffer
	require.NoError(t, WriteRun(&buf, run, OutputJSON))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Nil(t, decoded["report"])
	assert.Equal(t, "+Inf%", decoded["formatted"].(map[string]any)["totalReturn"])
}

func TestWriteRunTable(t *testing.T) {
	run := sampleRun()
	run.Fallback = true
	run.RequestedStrategy = "macd"
	run.Strategy = types.StrategyBuyHold

	var buf bytes.Buffer
	require.NoError(t, WriteRun(&buf, run, OutputTable))

	out := buf.String()
	assert.Contains(t, out, "Buy & Hold")
	assert.Contains(t, out, `fallback from "macd"`)
	assert.Contains(t, out, "12.35%")
	assert.Contains(t, out, "-8.10%")
	assert.Contains(t, out, "Winning trades")
}
