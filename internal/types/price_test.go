package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type PriceTestSuite struct {
	suite.Suite
}

func TestPriceSuite(t *testing.T) {
	suite.Run(t, new(PriceTestSuite))
}

func (suite *PriceTestSuite) TestClosingPrices() {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := []PricePoint{
		{Time: start, Price: 100},
		{Time: start.AddDate(0, 0, 1), Price: 102},
		{Time: start.AddDate(0, 0, 2), Price: 101},
	}

	suite.Equal(PriceSeries{100, 102, 101}, ClosingPrices(points))
}

func (suite *PriceTestSuite) TestClosingPricesEmpty() {
	prices := ClosingPrices(nil)
	suite.NotNil(prices)
	suite.Len(prices, 0)
}

func (suite *PriceTestSuite) TestFirstLastChange() {
	prices := PriceSeries{100, 102, 101, 105, 103}

	suite.Equal(100.0, prices.First())
	suite.Equal(103.0, prices.Last())
	suite.InDelta(3.0, prices.ChangePercent(), 1e-9)
}

func (suite *PriceTestSuite) TestStrategyTypes() {
	suite.Equal([]StrategyType{"buyhold", "sma", "rsi"}, AllStrategyTypes())
	suite.Equal("SMA Crossover", StrategySMACrossover.DisplayName())
	suite.Equal("macd", StrategyType("macd").DisplayName())
}
