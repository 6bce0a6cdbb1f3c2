package types

import "github.com/moznion/go-optional"

type IndicatorType string

const (
	IndicatorTypeSMA IndicatorType = "sma"
	IndicatorTypeRSI IndicatorType = "rsi"
	IndicatorTypeEMA IndicatorType = "ema"
)

// IndicatorSeries is an indicator output together with its alignment to the
// price series it was computed from.
//
// Offset is the price index that Values[0] corresponds to. Undefined leading
// positions are stored as None.
type IndicatorSeries struct {
	Name   IndicatorType
	Period int
	Offset int
	Values []optional.Option[float64]
}

// Len returns the number of stored values.
func (s IndicatorSeries) Len() int {
	return len(s.Values)
}

// Raw returns the j-th stored value, ignoring Offset. Out of range yields None.
func (s IndicatorSeries) Raw(j int) optional.Option[float64] {
	if j < 0 || j >= len(s.Values) {
		return optional.None[float64]()
	}

	return s.Values[j]
}

// At returns the value aligned with prices[i].
func (s IndicatorSeries) At(i int) optional.Option[float64] {
	return s.Raw(i - s.Offset)
}

// Defined returns how many stored values are Some.
func (s IndicatorSeries) Defined() int {
	n := 0

	for _, v := range s.Values {
		if v.IsSome() {
			n++
		}
	}

	return n
}
