// Package errors provides coded errors shared by the backtester, the market data
// providers and the outer surfaces (CLI, HTTP API, dashboard).
//
// Codes are grouped by hundreds, see Category:
//   - 1xx validation: bad parameters, days, periods, configuration
//   - 2xx data: missing or unavailable price history
//   - 3xx indicator, 4xx strategy, 6xx backtest
//   - 7xx market data: provider fetch, parse and write failures
//
// Usage:
//
//	err := errors.Newf(errors.ErrCodeInvalidDays, "days must be at least 1, got %d", days)
//	err = errors.Wrap(errors.ErrCodeDataUnavailable, "price history unavailable", cause)
//	if errors.HasCode(err, errors.ErrCodeDataUnavailable) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error is an error carrying an ErrorCode and an optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap attaches a code and message to cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// Error renders as "[<code> <name>] message[: cause]".
func (e *Error) Error() string {
	msg := fmt.Sprintf("[%d %s] %s", int(e.Code), e.Code, e.Message)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// GetCode returns the code of the outermost *Error in err's chain.
// An *InsufficientDataError reports ErrCodeInsufficientData and anything else ErrCodeUnknown.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	if IsInsufficientDataError(err) {
		return ErrCodeInsufficientData
	}

	return ErrCodeUnknown
}

// GetMessage returns the message of the outermost *Error in err's chain without
// its cause, or "" when err carries no code.
func GetMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}

	return ""
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// InsufficientDataError reports a price series too short to evaluate,
// typically an empty history for a coin.
type InsufficientDataError struct {
	Required int    // Minimum data points required
	Actual   int    // Data points available
	Coin     string // Coin id, empty when unknown
	Message  string
}

// NewInsufficientDataError creates a new InsufficientDataError.
func NewInsufficientDataError(required, actual int, coin, message string) *InsufficientDataError {
	return &InsufficientDataError{
		Required: required,
		Actual:   actual,
		Coin:     coin,
		Message:  message,
	}
}

// NewInsufficientDataErrorf creates a new InsufficientDataError with a formatted message.
func NewInsufficientDataErrorf(required, actual int, coin, format string, args ...any) *InsufficientDataError {
	return NewInsufficientDataError(required, actual, coin, fmt.Sprintf(format, args...))
}

// Error implements the error interface.
func (e *InsufficientDataError) Error() string {
	return e.Message
}

// IsInsufficientDataError reports whether err's chain holds an *InsufficientDataError.
func IsInsufficientDataError(err error) bool {
	var insufficientErr *InsufficientDataError

	return errors.As(err, &insufficientErr)
}
