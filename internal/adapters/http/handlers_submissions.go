package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/application"
)

func (h *Handler) handleCreateSubmission(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	var req application.SubmissionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	view, err := h.service.CreateSubmission(r.Context(), principal, req)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "create_submission", err)
		return
	}
	writeJSON(w, http.StatusCreated, view)
}

func (h *Handler) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	views, err := h.service.ListSubmissions(r.Context(), principal)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "list_submissions", err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid submission id")
		return
	}
	view, err := h.service.GetSubmission(r.Context(), principal, id)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "get_submission", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handler) handleModerationStats(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	stats, err := h.service.ModerationStats(r.Context(), principal)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "moderation_stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleModerationQueue(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	views, err := h.service.ModerationQueue(r.Context(), principal)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "moderation_queue", err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) handleReviewSubmission(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid submission id")
		return
	}
	var req application.ReviewRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	resp, err := h.service.ReviewSubmission(r.Context(), principal, id, req)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "review_submission", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
