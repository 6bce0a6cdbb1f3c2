package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ReportTestSuite struct {
	suite.Suite
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportTestSuite))
}

func (suite *ReportTestSuite) TestLosingTrades() {
	report := BacktestReport{TotalTrades: 5, WinningTrades: 3}
	suite.Equal(2, report.LosingTrades())
}

func (suite *ReportTestSuite) TestFormatted() {
	report := BacktestReport{
		TotalReturn:   3.0,
		SharpeRatio:   0.123456,
		MaxDrawdown:   -12.3456,
		WinRate:       66.6666,
		TotalTrades:   3,
		WinningTrades: 2,
	}

	formatted := report.Formatted()
	suite.Equal("3.00%", formatted.TotalReturn)
	suite.Equal("0.12", formatted.SharpeRatio)
	suite.Equal("-12.35%", formatted.MaxDrawdown)
	suite.Equal("66.67%", formatted.WinRate)
	suite.Equal(3, formatted.TotalTrades)
	suite.Equal(2, formatted.WinningTrades)
}

func (suite *ReportTestSuite) TestFormattedNonFinite() {
	report := BacktestReport{
		TotalReturn: math.Inf(1),
		SharpeRatio: math.NaN(),
		MaxDrawdown: math.Inf(-1),
	}

	formatted := report.Formatted()
	suite.Equal("+Inf%", formatted.TotalReturn)
	suite.Equal("NaN", formatted.SharpeRatio)
	suite.Equal("-Inf%", formatted.MaxDrawdown)
	suite.False(report.IsFinite())
}

func (suite *ReportTestSuite) TestIsFinite() {
	suite.True(BacktestReport{TotalReturn: 1, SharpeRatio: 2, MaxDrawdown: -3, WinRate: 50}.IsFinite())
}

func (suite *ReportTestSuite) TestYAMLFieldNames() {
	report := BacktestReport{TotalReturn: 3, TotalTrades: 1, WinningTrades: 1, WinRate: 100}

	data, err := yaml.Marshal(report)
	suite.Require().NoError(err)
	suite.Contains(string(data), "total_return: 3")
	suite.Contains(string(data), "winning_trades: 1")
	suite.Contains(string(data), "win_rate: 100")
}
