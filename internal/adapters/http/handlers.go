package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/application"
)

// CertificateRenderer produces the downloadable certificate document.
type CertificateRenderer interface {
	Render(cert application.CertificateView) ([]byte, error)
}

type Handler struct {
	service  *application.Service
	renderer CertificateRenderer
	logger   *slog.Logger
}

func NewHandler(service *application.Service, renderer CertificateRenderer) *Handler {
	return &Handler{
		service:  service,
		renderer: renderer,
		logger:   httpLogger(),
	}
}

// authMiddleware resolves the bearer token into a principal. Role checks live in
// the application layer so handlers only establish identity.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerTokenFromHeader(r)
		if token == "" {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			return
		}
		principal, err := h.service.Authenticate(r.Context(), token)
		if err != nil {
			writeDomainError(r.Context(), w, h.logger, "authenticate", err)
			return
		}
		ctx := contextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// decodeBody parses a single JSON value and rejects unknown fields so typos in
// client payloads fail loudly instead of silently dropping data.
func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

func parseIntDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
