package indicator

import (
	"github.com/rxtech-lab/coinlab/internal/types"
)

// Indicator interface defines methods that any technical indicator must implement
type Indicator interface {
	// Name returns the name of the indicator
	Name() types.IndicatorType
	// Config sets the indicator parameters, e.g. the period.
	Config(params ...any) error
	// Calculate computes the indicator over the whole price series.
	Calculate(prices types.PriceSeries) (types.IndicatorSeries, error)
}

// NewDefaultRegistry returns a registry holding every built-in indicator.
func NewDefaultRegistry() *Registry {
	registry := NewIndicatorRegistry()
	// Names are distinct, registration cannot fail.
	_ = registry.RegisterIndicator(types.IndicatorTypeSMA, NewSMAIndicator)
	_ = registry.RegisterIndicator(types.IndicatorTypeRSI, NewRSIIndicator)
	_ = registry.RegisterIndicator(types.IndicatorTypeEMA, NewEMA)

	return registry
}

var builtins = NewDefaultRegistry()

// New returns a fresh, default-configured built-in indicator.
func New(name types.IndicatorType) (Indicator, error) {
	return builtins.NewIndicator(name)
}

func periodFromParam(param any) (int, bool) {
	switch p := param.(type) {
	case int:
		return p, true
	case float64:
		return int(p), true
	default:
		return 0, false
	}
}
