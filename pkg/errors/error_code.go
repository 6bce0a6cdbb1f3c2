package errors

import "fmt"

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeInvalidType          ErrorCode = 107
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110
	ErrCodeInvalidDays          ErrorCode = 120

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound    ErrorCode = 200
	ErrCodeDataUnavailable ErrorCode = 201
	ErrCodeQueryFailed     ErrorCode = 202

	// Indicator errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301

	// Strategy errors (400-499)
	ErrCodeStrategyNotFound      ErrorCode = 400
	ErrCodeStrategyConfigError   ErrorCode = 401
	ErrCodeStrategyAlreadyExists ErrorCode = 402
	ErrCodeInvalidStrategy       ErrorCode = 403
	ErrCodeVersionMismatch       ErrorCode = 404

	// Backtest errors (600-699)
	ErrCodeBacktestNoProvider ErrorCode = 608

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeUnsupportedCoin       ErrorCode = 703
	ErrCodeInvalidProvider       ErrorCode = 704
)

var codeNames = map[ErrorCode]string{
	ErrCodeUnknown:                "unknown",
	ErrCodeInvalidParameter:       "invalid_parameter",
	ErrCodeInvalidConfiguration:   "invalid_configuration",
	ErrCodeInsufficientData:       "insufficient_data",
	ErrCodeInvalidType:            "invalid_type",
	ErrCodeInvalidPeriod:          "invalid_period",
	ErrCodeMissingParameter:       "missing_parameter",
	ErrCodeInvalidVersion:         "invalid_version",
	ErrCodeInvalidDays:            "invalid_days",
	ErrCodeDataNotFound:           "data_not_found",
	ErrCodeDataUnavailable:        "data_unavailable",
	ErrCodeQueryFailed:            "query_failed",
	ErrCodeIndicatorNotFound:      "indicator_not_found",
	ErrCodeIndicatorAlreadyExists: "indicator_already_exists",
	ErrCodeStrategyNotFound:       "strategy_not_found",
	ErrCodeStrategyConfigError:    "strategy_config_error",
	ErrCodeStrategyAlreadyExists:  "strategy_already_exists",
	ErrCodeInvalidStrategy:        "invalid_strategy",
	ErrCodeVersionMismatch:        "version_mismatch",
	ErrCodeBacktestNoProvider:     "backtest_no_provider",
	ErrCodeMarketDataFetchFailed:  "market_data_fetch_failed",
	ErrCodeMarketDataWriteFailed:  "market_data_write_failed",
	ErrCodeMarketDataParseFailed:  "market_data_parse_failed",
	ErrCodeUnsupportedCoin:        "unsupported_coin",
	ErrCodeInvalidProvider:        "invalid_provider",
}

// String returns the snake_case name of the code, or code_<n> for unregistered codes.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}

	return fmt.Sprintf("code_%d", int(c))
}

// Category groups error codes by their hundreds range.
type Category string

const (
	CategoryGeneral    Category = "general"
	CategoryValidation Category = "validation"
	CategoryData       Category = "data"
	CategoryIndicator  Category = "indicator"
	CategoryStrategy   Category = "strategy"
	CategoryBacktest   Category = "backtest"
	CategoryMarketData Category = "market_data"
)

// Category returns the category the code belongs to.
func (c ErrorCode) Category() Category {
	switch c / 100 {
	case 1:
		return CategoryValidation
	case 2:
		return CategoryData
	case 3:
		return CategoryIndicator
	case 4:
		return CategoryStrategy
	case 6:
		return CategoryBacktest
	case 7:
		return CategoryMarketData
	default:
		return CategoryGeneral
	}
}
