package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"hrinsight/internal/domain/benchmark"
	"hrinsight/internal/domain/readers"
	"hrinsight/internal/domain/reports"
	"hrinsight/internal/domain/stats"
)

type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type Meta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Meta      *Meta  `json:"meta,omitempty"`
	Error     *Error `json:"error,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Warn("write json failed", "err", err)
	}
}

func Success(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, RequestID: requestID})
}

func SuccessWithMeta(w http.ResponseWriter, data any, meta Meta, requestID string) {
	WriteJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Meta: &meta, RequestID: requestID})
}

func Created(w http.ResponseWriter, data any, requestID string) {
	WriteJSON(w, http.StatusCreated, Envelope{Success: true, Data: data, RequestID: requestID})
}

func Fail(w http.ResponseWriter, status int, code, message, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message}, RequestID: requestID})
}

func FailWithDetails(w http.ResponseWriter, status int, code, message string, details any, requestID string) {
	WriteJSON(w, status, Envelope{Success: false, Error: &Error{Code: code, Message: message, Details: details}, RequestID: requestID})
}

// FailError maps domain error kinds onto HTTP responses. Unknown errors are
// logged and reported as internal errors without leaking their text.
func FailError(w http.ResponseWriter, err error, requestID string) {
	status, code, message := Classify(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "requestId", requestID, "err", err)
	}
	Fail(w, status, code, message, requestID)
}

func Classify(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, readers.ErrDataUnavailable):
		return http.StatusServiceUnavailable, "data_unavailable", "data source unavailable"
	case errors.Is(err, benchmark.ErrNoEmployeesInScope), errors.Is(err, benchmark.ErrInvalidScope):
		return http.StatusBadRequest, "invalid_scope", err.Error()
	case errors.Is(err, stats.ErrMalformedInput):
		return http.StatusBadRequest, "validation_error", err.Error()
	case errors.Is(err, benchmark.ErrEmployeeNotFound), errors.Is(err, readers.ErrNotFound):
		return http.StatusNotFound, "not_found", err.Error()
	case errors.Is(err, reports.ErrHistoryUnset):
		return http.StatusNotImplemented, "not_configured", err.Error()
	default:
		return http.StatusInternalServerError, "internal_error", "internal server error"
	}
}
