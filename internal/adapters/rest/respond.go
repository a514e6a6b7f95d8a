package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/soundscope/internal/chart"
	"github.com/ewilliams-labs/soundscope/internal/core/domain"
	"github.com/ewilliams-labs/soundscope/internal/core/ports"
)

const (
	errCodeInvalidCriteria = "INVALID_CRITERIA"
	errCodeDataUnavailable = "DATA_UNAVAILABLE"
	errCodeLookupFailed    = "LOOKUP_FAILED"
	errCodeNoData          = "NO_DATA"
	errCodeInternal        = "INTERNAL"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeErrorWithCode(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

// statusFor maps the error taxonomy to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidCriteria):
		return http.StatusBadRequest, errCodeInvalidCriteria
	case errors.Is(err, domain.ErrDataUnavailable):
		return http.StatusServiceUnavailable, errCodeDataUnavailable
	case errors.Is(err, ports.ErrLookupFailed):
		return http.StatusNotFound, errCodeLookupFailed
	case errors.Is(err, chart.ErrNoData):
		return http.StatusNotFound, errCodeNoData
	default:
		return http.StatusInternalServerError, errCodeInternal
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("request_id", RequestIDFromContext(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
	writeErrorWithCode(w, status, err.Error(), code)
}
