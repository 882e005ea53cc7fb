package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/application"
)

func (h *Handler) handleGetCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid certificate id")
		return
	}
	cert, err := h.service.GetCertificate(r.Context(), id)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "get_certificate", err)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

func (h *Handler) handleCertificatePDF(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid certificate id")
		return
	}
	cert, err := h.service.GetCertificate(r.Context(), id)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "certificate_pdf", err)
		return
	}
	doc, err := h.renderer.Render(cert)
	if err != nil {
		logHTTPOperationError(r.Context(), h.logger, "certificate_pdf", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "could not render certificate")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "TrustInk-"+cert.VerificationID+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func (h *Handler) handleVerifyCertificate(w http.ResponseWriter, r *http.Request) {
	vid := strings.TrimSpace(chi.URLParam(r, "vid"))
	result, err := h.service.VerifyCertificate(r.Context(), vid)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "verify_certificate", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleRegistry(w http.ResponseWriter, r *http.Request) {
	query := application.RegistryQuery{
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
		Page:   parseIntDefault(r.URL.Query().Get("page"), 1),
		Limit:  parseIntDefault(r.URL.Query().Get("limit"), 0),
	}
	resp, err := h.service.Registry(r.Context(), query)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "registry", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleRegistryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.RegistryStats(r.Context())
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "registry_stats", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleRevokeCertificate(w http.ResponseWriter, r *http.Request) {
	principal, ok := principalFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal")
		return
	}
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid certificate id")
		return
	}
	var req application.RevocationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	cert, err := h.service.RevokeCertificate(r.Context(), principal, id, req)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "revoke_certificate", err)
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

// handleThirdPartyVerify authenticates with an API key rather than a bearer
// token. The key travels in X-API-Key or, for curl convenience, ?api_key=.
func (h *Handler) handleThirdPartyVerify(w http.ResponseWriter, r *http.Request) {
	rawKey := strings.TrimSpace(r.Header.Get("X-API-Key"))
	if rawKey == "" {
		rawKey = strings.TrimSpace(r.URL.Query().Get("api_key"))
	}
	vid := strings.TrimSpace(chi.URLParam(r, "vid"))
	result, err := h.service.ThirdPartyVerify(r.Context(), rawKey, vid)
	if err != nil {
		writeDomainError(r.Context(), w, h.logger, "third_party_verify", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
