package api

import (
	"encoding/json"
	"net/http"

	"github.com/rxtech-lab/coinlab/pkg/errors"
	"go.uber.org/zap"
)

type errorResponse struct {
	Code  errors.ErrorCode `json:"code"`
	Name  string           `json:"name"`
	Error string           `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	//nolint:errchkjson // the status line is already written
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.Error("request failed", zap.Int("status", status), zap.Error(err))
	}

	code := errors.GetCode(err)
	writeJSON(w, status, errorResponse{Code: code, Name: code.String(), Error: publicMessage(err, status)})
}

// publicMessage is the error text sent to clients. Server-side failures only
// show the outermost coded message, their causes stay in the log.
func publicMessage(err error, status int) string {
	if status < http.StatusInternalServerError {
		return err.Error()
	}

	if message := errors.GetMessage(err); message != "" {
		return message
	}

	return http.StatusText(status)
}

// statusFor maps an error code to the HTTP status returned to clients.
// Codes not listed fall back on their category.
func statusFor(err error) int {
	code := errors.GetCode(err)

	switch code {
	case errors.ErrCodeInsufficientData:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeDataUnavailable,
		errors.ErrCodeMarketDataFetchFailed,
		errors.ErrCodeMarketDataParseFailed:
		return http.StatusBadGateway
	case errors.ErrCodeInvalidParameter,
		errors.ErrCodeMissingParameter,
		errors.ErrCodeInvalidDays,
		errors.ErrCodeInvalidPeriod,
		errors.ErrCodeInvalidType,
		errors.ErrCodeInvalidStrategy,
		errors.ErrCodeUnsupportedCoin,
		errors.ErrCodeStrategyConfigError:
		return http.StatusBadRequest
	case errors.ErrCodeDataNotFound,
		errors.ErrCodeIndicatorNotFound,
		errors.ErrCodeStrategyNotFound:
		return http.StatusNotFound
	}

	switch code.Category() {
	case errors.CategoryValidation:
		return http.StatusBadRequest
	case errors.CategoryMarketData:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
