package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/bazzingacoder/webaide-server/internal/apperror"
	"github.com/bazzingacoder/webaide-server/internal/service"
)

// genericFailureMessage is what any non-validation failure looks like to the
// submitter. One message for every failure class: a hosting outage and a
// corrupt dataset are equally unfixable from the form, and detail in either
// direction would leak internals.
const genericFailureMessage = "An error occurred while processing your submission."

// SubmissionHandler exposes the submission workflow and its audit trail.
//
//	POST /api/submissions       → run the workflow (public, form-encoded)
//	GET  /api/submissions       → list audit records (admin)
//	GET  /api/submissions/{id}  → one audit record (admin)
type SubmissionHandler struct {
	service *service.SubmissionService
	logger  *slog.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(svc *service.SubmissionService, logger *slog.Logger) *SubmissionHandler {
	return &SubmissionHandler{service: svc, logger: logger}
}

// HandleSubmit runs one form submission through the workflow.
//
// HTTP: POST /api/submissions
// BODY: URL-encoded form fields resource-category, resource-title,
// resource-url, resource-description (optional).
//
// The form field names are the site's historical ones; absent fields come
// back from FormValue as "" which is exactly the default the workflow wants.
func (h *SubmissionHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("unparseable submission form", slog.String("error", err.Error()))
		writeError(w, apperror.ValidationFailed("", "request body must be URL-encoded form data"))
		return
	}

	sub, err := h.service.Submit(
		r.Context(),
		r.FormValue("resource-category"),
		r.FormValue("resource-title"),
		r.FormValue("resource-url"),
		r.FormValue("resource-description"),
	)
	if err != nil {
		// Validation errors carry their field message out — the submitter
		// can correct those. Everything else is the one generic failure.
		if errors.Is(err, apperror.ErrValidation) {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: genericFailureMessage,
		})
		return
	}

	h.logger.Info("submission accepted",
		slog.String("id", sub.ID),
		slog.String("title", sub.Title),
	)

	writeJSON(w, http.StatusOK, MessageResponse{Message: service.ConfirmationMessage})
}

// HandleList returns the audit trail, newest first.
//
// HTTP: GET /api/submissions?limit=20&offset=0  (admin only)
func (h *SubmissionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	subs, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("failed to list submissions", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, subs)
}

// HandleGetByID returns one audit record.
//
// HTTP: GET /api/submissions/{id}  (admin only)
func (h *SubmissionHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	sub, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, sub)
}
