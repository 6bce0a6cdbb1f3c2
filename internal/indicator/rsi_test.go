package indicator

import (
	"testing"

	"github.com/rxtech-lab/coinlab/internal/types"
	"github.com/rxtech-lab/coinlab/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

func (suite *RSITestSuite) TestNewRSIIndicator() {
	rsi := NewRSIIndicator()
	suite.NotNil(rsi)

	rsiImpl := rsi.(*RSIIndicator)
	suite.Equal(14, rsiImpl.period)
	suite.Equal(types.IndicatorTypeRSI, rsi.Name())
}

func (suite *RSITestSuite) TestConfig() {
	rsi := NewRSIIndicator()
	rsiImpl := rsi.(*RSIIndicator)

	suite.NoError(rsi.Config(21))
	suite.Equal(21, rsiImpl.period)

	err := rsi.Config()
	suite.Error(err)
	suite.Contains(err.Error(), "expects at least 1 parameter")

	err = rsi.Config("invalid")
	suite.Error(err)
	suite.Contains(err.Error(), "invalid type for period")

	err = rsi.Config(-5)
	suite.Error(err)
	suite.Contains(err.Error(), "period must be a positive integer")
}

func (suite *RSITestSuite) TestRSIValues() {
	series, err := RSI(types.PriceSeries{1, 2, 3, 2}, 2)
	suite.Require().NoError(err)

	suite.Equal(2, series.Offset)
	suite.Equal(2, series.Len())

	// no losses yet: RS is fixed at 100
	suite.InDelta(100-100.0/101, series.Raw(0).Unwrap(), 1e-9)
	suite.InDelta(99.00990099, series.At(2).Unwrap(), 1e-6)

	// gains 2, losses 1 -> RS 2
	suite.InDelta(100-100.0/3, series.Raw(1).Unwrap(), 1e-9)
	suite.Equal(series.Raw(1), series.At(3))
}

func (suite *RSITestSuite) TestRSIAccumulatesFromStart() {
	// A rolling window of 2 would forget the early gains; cumulative sums keep them.
	series, err := RSI(types.PriceSeries{10, 20, 30, 29, 28}, 2)
	suite.Require().NoError(err)

	// gains 20, losses 2 -> RS 10
	suite.InDelta(100-100.0/11, series.At(4).Unwrap(), 1e-9)
}

func (suite *RSITestSuite) TestZeroChangeCountsAsGain() {
	series, err := RSI(types.PriceSeries{5, 5, 5, 5}, 2)
	suite.Require().NoError(err)

	for j := 0; j < series.Len(); j++ {
		suite.InDelta(99.00990099, series.Raw(j).Unwrap(), 1e-6)
	}
}

func (suite *RSITestSuite) TestLength() {
	testCases := []struct {
		name     string
		length   int
		period   int
		expected int
	}{
		{name: "empty", length: 0, period: 14, expected: 0},
		{name: "single price", length: 1, period: 14, expected: 0},
		{name: "exactly period", length: 14, period: 14, expected: 0},
		{name: "period plus one", length: 15, period: 14, expected: 1},
		{name: "thirty days", length: 30, period: 14, expected: 16},
		{name: "period one", length: 5, period: 1, expected: 4},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			prices := make(types.PriceSeries, tc.length)
			for i := range prices {
				prices[i] = float64(100 + i%3)
			}

			series, err := RSI(prices, tc.period)
			suite.Require().NoError(err)
			suite.Equal(tc.expected, series.Len())
			suite.Equal(tc.expected, series.Defined())
			suite.Equal(tc.period, series.Offset)
		})
	}
}

func (suite *RSITestSuite) TestBounds() {
	prices := types.PriceSeries{44, 44.3, 44.1, 43.6, 44.3, 44.8, 45.1, 45.4, 45.8, 46.1, 45.9, 46.3, 45.6, 46.3, 46.3, 46, 46.4, 46.2, 45.6, 46.2}

	series, err := RSI(prices, 14)
	suite.Require().NoError(err)
	suite.Equal(len(prices)-14, series.Len())

	for j := 0; j < series.Len(); j++ {
		v := series.Raw(j).Unwrap()
		suite.GreaterOrEqual(v, 0.0)
		suite.LessOrEqual(v, 100.0)
	}
}

func (suite *RSITestSuite) TestInvalidPeriod() {
	_, err := RSI(types.PriceSeries{1, 2}, 0)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidPeriod))
}

func (suite *RSITestSuite) TestCalculateUsesConfiguredPeriod() {
	rsi := NewRSIIndicator()
	suite.Require().NoError(rsi.Config(2))

	series, err := rsi.Calculate(types.PriceSeries{1, 2, 3, 2})
	suite.Require().NoError(err)
	suite.Equal(2, series.Offset)
	suite.Equal(2, series.Len())
}
