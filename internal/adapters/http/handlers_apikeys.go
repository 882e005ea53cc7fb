package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/application"
)

func (h *Handler) handleCreateAPIKey(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	var req application.APIKeyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	key, err := h.service.CreateAPIKey(r.Context(), principal, req)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "create_api_key", err)
		return
	}
	writeJSON(w, http.StatusCreated, key)
}

func (h *Handler) handleListAPIKeys(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	keys, err := h.service.ListAPIKeys(r.Context(), principal)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "list_api_keys", err)
		return
	}
	writeJSON(w, http.StatusOK, keys)
}

func (h *Handler) handleDeleteAPIKey(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	keyID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid key id")
		return
	}
	if err := h.service.DeleteAPIKey(r.Context(), principal, keyID); err != nil {
		writeDomainError(r.Context(), w, h.logger, "delete_api_key", err)
		return
	}
	writeMessage(w, http.StatusOK, "API key deactivated")
}
