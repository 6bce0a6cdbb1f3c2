package types

import "github.com/moznion/go-optional"

// Position is a single simulated long trade. Only one may be open at a time
// within an evaluator run.
type Position struct {
	EntryIndex int
	EntryPrice float64
	ExitIndex  optional.Option[int]
	ExitPrice  optional.Option[float64]
	// Forced is set when the position was closed at the last price because the
	// series ended while it was still open.
	Forced bool
}

// OpenPosition opens a position at prices[index].
func OpenPosition(index int, price float64) *Position {
	return &Position{
		EntryIndex: index,
		EntryPrice: price,
		ExitIndex:  optional.None[int](),
		ExitPrice:  optional.None[float64](),
		Forced:     false,
	}
}

// IsOpen reports whether the position has no exit yet.
func (p *Position) IsOpen() bool {
	return p.ExitPrice.IsNone()
}

// Close records the exit.
func (p *Position) Close(index int, price float64) {
	p.ExitIndex = optional.Some(index)
	p.ExitPrice = optional.Some(price)
}

// ReturnPercent is (exit-entry)/entry*100, or None while the position is open.
func (p *Position) ReturnPercent() optional.Option[float64] {
	exit, err := p.ExitPrice.Take()
	if err != nil {
		return optional.None[float64]()
	}

	return optional.Some((exit - p.EntryPrice) / p.EntryPrice * 100)
}

// IsWin reports whether the position closed above its entry price.
func (p *Position) IsWin() bool {
	exit, err := p.ExitPrice.Take()
	if err != nil {
		return false
	}

	return exit > p.EntryPrice
}
