package types

// StrategyType identifies one of the built-in trading strategies.
type StrategyType string

const (
	// StrategyBuyHold enters at the first price and exits at the last one.
	StrategyBuyHold StrategyType = "buyhold"
	// StrategySMACrossover trades the short/long simple moving average crossover.
	StrategySMACrossover StrategyType = "sma"
	// StrategyRSIThreshold buys oversold and sells overbought RSI readings.
	StrategyRSIThreshold StrategyType = "rsi"
)

// AllStrategyTypes lists the built-in strategies in display order.
func AllStrategyTypes() []StrategyType {
	return []StrategyType{StrategyBuyHold, StrategySMACrossover, StrategyRSIThreshold}
}

// DisplayName returns the human-readable strategy name.
func (s StrategyType) DisplayName() string {
	switch s {
	case StrategyBuyHold:
		return "Buy & Hold"
	case StrategySMACrossover:
		return "SMA Crossover"
	case StrategyRSIThreshold:
		return "RSI Strategy"
	default:
		return string(s)
	}
}
