package handler

// RESPONSE HELPERS:
// These functions standardise how we send JSON responses and errors, so every
// handler produces the same shapes:
//
//	success: whatever the endpoint returns, or {"message": "..."}
//	failure: {"error": "validation_error", "message": "title is required"}
//
// The error mapping is also the propagation policy from the error-handling
// design: validation failures carry their field message to the caller (the
// submitter can fix those), while parse and publish failures collapse into
// one generic 500 — the real cause goes to logs and the audit trail only.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/bazzingacoder/webaide-server/internal/apperror"
)

// MessageResponse is the body of a plain-message reply, such as the
// submission confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard error format returned by all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`   // Machine-readable error type (e.g., "not_found")
	Message string `json:"message"` // Human-readable description
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be set before the first body write — once Encode
// writes, header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers already sent; all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to the appropriate HTTP status code and
// sends it. The service layer returns apperror sentinels; this is the single
// place they become status codes, so the services stay HTTP-agnostic.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError

	// errors.As walks the wrap chain and fills appErr if an *AppError is
	// anywhere in it.
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrParse), errors.Is(err, apperror.ErrPublish):
			// Still a 500: the submitter can't fix either, and the
			// AppError message for both classes is already generic.
			status = http.StatusInternalServerError
			errorType = "internal_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error — never expose internal detail to the client; the raw
	// message might contain API responses or file paths.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
