package http

import (
	"net/http"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/application"
)

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req application.RegisterRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "register", err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req application.LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "login", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	user, err := h.service.Me(r.Context(), principal)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "me", err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
