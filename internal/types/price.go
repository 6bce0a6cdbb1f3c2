package types

import "time"

// PricePoint is a single (timestamp, price) pair returned by a price-history provider.
type PricePoint struct {
	Time  time.Time `json:"time" yaml:"time"`
	Price float64   `json:"price" yaml:"price"`
}

// PriceSeries is an ordered sequence of prices sampled at a fixed daily step.
// Index 0 is the oldest price.
type PriceSeries []float64

// ReturnSeries holds percentage period-over-period returns derived from a PriceSeries.
// It has the same length as its source; element 0 is 0 by convention.
type ReturnSeries []float64

// ClosingPrices extracts the price component of each point, preserving order.
func ClosingPrices(points []PricePoint) PriceSeries {
	prices := make(PriceSeries, 0, len(points))
	for _, p := range points {
		prices = append(prices, p.Price)
	}

	return prices
}

// First returns the oldest price. The series must not be empty.
func (p PriceSeries) First() float64 {
	return p[0]
}

// Last returns the newest price. The series must not be empty.
func (p PriceSeries) Last() float64 {
	return p[len(p)-1]
}

// ChangePercent returns the percentage change from the first to the last price.
func (p PriceSeries) ChangePercent() float64 {
	return (p.Last() - p.First()) / p.First() * 100
}
