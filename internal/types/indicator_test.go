package types

import (
	"testing"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type IndicatorTestSuite struct {
	suite.Suite
}

func TestIndicatorSuite(t *testing.T) {
	suite.Run(t, new(IndicatorTestSuite))
}

func (suite *IndicatorTestSuite) TestIndicatorTypeConstants() {
	suite.Equal(IndicatorType("sma"), IndicatorTypeSMA)
	suite.Equal(IndicatorType("rsi"), IndicatorTypeRSI)
	suite.NotEqual(IndicatorTypeSMA, IndicatorTypeRSI)
}

func (suite *IndicatorTestSuite) TestAtUsesOffset() {
	series := IndicatorSeries{
		Name:   IndicatorTypeRSI,
		Period: 2,
		Offset: 2,
		Values: []optional.Option[float64]{optional.Some(10.0), optional.Some(20.0)},
	}

	suite.True(series.At(0).IsNone())
	suite.True(series.At(1).IsNone())
	suite.Equal(10.0, series.At(2).Unwrap())
	suite.Equal(20.0, series.At(3).Unwrap())
	suite.True(series.At(4).IsNone())
}

func (suite *IndicatorTestSuite) TestRawIgnoresOffset() {
	series := IndicatorSeries{
		Offset: 5,
		Values: []optional.Option[float64]{optional.Some(1.0), optional.Some(2.0)},
	}

	suite.Equal(1.0, series.Raw(0).Unwrap())
	suite.Equal(2.0, series.Raw(1).Unwrap())
	suite.True(series.Raw(-1).IsNone())
	suite.True(series.Raw(2).IsNone())
	suite.Equal(2, series.Len())
}

func (suite *IndicatorTestSuite) TestDefined() {
	series := IndicatorSeries{
		Values: []optional.Option[float64]{
			optional.None[float64](),
			optional.None[float64](),
			optional.Some(3.0),
		},
	}

	suite.Equal(1, series.Defined())
	suite.Equal(3, series.Len())
}

func (suite *IndicatorTestSuite) TestEmptySeries() {
	series := IndicatorSeries{}

	suite.Equal(0, series.Len())
	suite.Equal(0, series.Defined())
	suite.True(series.At(0).IsNone())
}
