// internal/app/system/httpjson/httpjson.go

// Package httpjson is the JSON response layer shared by every feature
// handler. It decodes request bodies, writes success payloads, and maps
// apperr kinds onto HTTP statuses in one place so the features stay thin.
package httpjson

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/minglehub/minglehub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// ErrorBody is the error envelope: status code, user-facing message, and
// optional field-level validation messages.
type ErrorBody struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// Write encodes v as JSON with the given status. A nil v writes just the
// status header.
func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// OK writes a 200 with v, or an empty 200 body when v is nil.
func OK(w http.ResponseWriter, v any) {
	Write(w, http.StatusOK, v)
}

// Decode reads a JSON request body into v. Returns a validation error on
// malformed input so the caller can hand it straight to an ErrorLogger.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return apperr.Validation("malformed request body")
	}
	return nil
}

// StatusFor maps an error onto an HTTP status per the taxonomy:
// validation/self-action 400, not-found 404, already-exists/already-in-state
// 409, everything else (storage and unclassified) 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrSelfAction):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrAlreadyExists), errors.Is(err, apperr.ErrAlreadyInState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ErrorLogger writes error envelopes and logs them with consistent fields.
// One instance is shared across handlers.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger on the app logger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// WriteError maps err to a status, logs it, and writes the envelope. Storage
// failures log at error level with the cause; domain errors log at warn with
// just the message, since they are expected outcomes.
func (e *ErrorLogger) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	msg := err.Error()

	if status == http.StatusInternalServerError {
		e.log.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err))
		// Internal details stay out of the response body.
		msg = "internal error"
	} else {
		e.log.Warn("request rejected",
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.String("reason", msg))
	}

	Write(w, status, ErrorBody{Status: status, Message: msg})
}

// WriteValidation writes a 400 carrying the field-level messages.
func (e *ErrorLogger) WriteValidation(w http.ResponseWriter, r *http.Request, fieldErrors []string) {
	e.log.Warn("validation failed",
		zap.String("path", r.URL.Path),
		zap.Strings("errors", fieldErrors))
	Write(w, http.StatusBadRequest, ErrorBody{
		Status:  http.StatusBadRequest,
		Message: "Validation failed",
		Errors:  fieldErrors,
	})
}
