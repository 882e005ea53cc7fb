package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/application"
)

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	users, err := h.service.ListUsers(r.Context(), principal)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "list_users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *Handler) handleUpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
		return
	}
	var req application.UserStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	resp, err := h.service.UpdateUserStatus(r.Context(), principal, userID, req)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "update_user_status", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdateUserTrust(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
		return
	}
	var req application.TrustScoreRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	resp, err := h.service.UpdateUserTrust(r.Context(), principal, userID, req)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "update_user_trust", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleVerifyIdentity(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid user id")
		return
	}
	user, err := h.service.VerifyIdentity(r.Context(), principal, userID)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "verify_identity", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (h *Handler) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	stats, err := h.service.AdminStats(r.Context(), principal)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "admin_stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	stats, err := h.service.DashboardStats(r.Context(), principal)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "dashboard_stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleCreatorProfile(w http.ResponseWriter, r *http.Request) {
	creatorID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid creator id")
		return
	}
	profile, err := h.service.CreatorProfile(r.Context(), creatorID)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "creator_profile", err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleSeed provisions the demo accounts. Kept public and idempotent so a
// fresh environment can be bootstrapped without prior credentials.
func (h *Handler) handleSeed(w http.ResponseWriter, r *http.Request) {
	resp, err := h.service.Seed(r.Context())
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "seed", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
