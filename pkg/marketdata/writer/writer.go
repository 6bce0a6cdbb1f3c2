// Package writer persists downloaded price history.
package writer

import (
	"github.com/rxtech-lab/coinlab/internal/types"
)

// MarketDataWriter defines the interface for writing price history to a destination.
type MarketDataWriter interface {
	// Initialize sets up the writer, potentially creating tables or files.
	Initialize() error
	// Write persists a single price point for coinID.
	Write(coinID string, point types.PricePoint) error
	// Finalize completes the writing process and returns the output location.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
	// RowCount returns the number of points written so far.
	RowCount() int
}

// PriceFileName is the parquet file name used for a coin inside a data directory.
// Invalid coin ids are rejected so the name never leaves the directory.
func PriceFileName(coinID string) (string, error) {
	if err := types.ValidateCoinID(coinID); err != nil {
		return "", err
	}

	return coinID + ".parquet", nil
}
