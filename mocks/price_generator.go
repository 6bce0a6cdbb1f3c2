package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/rxtech-lab/coinlab/internal/types"
)

// PriceGenerator produces deterministic daily price histories for tests.
type PriceGenerator struct {
	rng *rand.Rand
}

// NewPriceGenerator creates a generator. Use a fixed seed for reproducible results.
func NewPriceGenerator(seed int64) *PriceGenerator {
	return &PriceGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures a generated price history.
type GeneratorConfig struct {
	// StartTime is the timestamp of the first point.
	StartTime time.Time
	// Days is the number of daily points to generate.
	Days int
	// InitialPrice is the first price.
	InitialPrice float64
	// Volatility is the standard deviation of the daily return (0.03 = 3%).
	Volatility float64
	// Trend is the total drift spread across the series (-0.5 to 0.5 for bearish to bullish).
	Trend float64
}

// DefaultConfig returns a 90 day history starting at 100 with 3% daily volatility.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		StartTime:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Days:         90,
		InitialPrice: 100,
		Volatility:   0.03,
		Trend:        0,
	}
}

// Generate returns a geometric random walk, one point per day, oldest first.
// Prices are always positive.
func (g *PriceGenerator) Generate(config GeneratorConfig) []types.PricePoint {
	points := make([]types.PricePoint, config.Days)
	price := config.InitialPrice

	for i := 0; i < config.Days; i++ {
		rounded := roundToDecimals(price, 4)
		if rounded <= 0 {
			rounded = price
		}

		points[i] = types.PricePoint{
			Time:  config.StartTime.AddDate(0, 0, i),
			Price: rounded,
		}

		// Box-Muller transform for a standard normal sample
		u1 := 1 - g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)

		next := price * (1 + config.Volatility*z + config.Trend/float64(config.Days))
		if next <= 0 {
			next = price * 0.99
		}

		price = next
	}

	return points
}

// GeneratePrices is Generate reduced to the price component.
func (g *PriceGenerator) GeneratePrices(config GeneratorConfig) types.PriceSeries {
	return types.ClosingPrices(g.Generate(config))
}

func roundToDecimals(val float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(val*pow) / pow
}
