package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers the certification API routes and middleware stack.
// Public read endpoints (verify, registry, creator profiles) take no auth;
// everything that mutates state sits behind the bearer-token group.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	logger := httpLogger()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware(logger))
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", handler.handleHealthz)
	r.Get("/readyz", handler.handleReadyz)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handler.handleRegister)
		r.Post("/auth/login", handler.handleLogin)

		r.Get("/certificates/{id}", handler.handleGetCertificate)
		r.Get("/certificates/{id}/pdf", handler.handleCertificatePDF)
		r.Get("/verify/{vid}", handler.handleVerifyCertificate)
		r.Get("/registry", handler.handleRegistry)
		r.Get("/registry/stats", handler.handleRegistryStats)
		r.Get("/creators/{id}/profile", handler.handleCreatorProfile)
		r.Get("/v1/verify/{vid}", handler.handleThirdPartyVerify)
		r.Post("/seed", handler.handleSeed)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Get("/auth/me", handler.handleMe)

			r.Post("/submissions", handler.handleCreateSubmission)
			r.Get("/submissions", handler.handleListSubmissions)
			r.Get("/submissions/{id}", handler.handleGetSubmission)

			r.Get("/moderation/stats", handler.handleModerationStats)
			r.Get("/moderation/queue", handler.handleModerationQueue)
			r.Post("/moderation/{id}/review", handler.handleReviewSubmission)

			r.Get("/dashboard/stats", handler.handleDashboardStats)

			r.Post("/apikeys", handler.handleCreateAPIKey)
			r.Get("/apikeys", handler.handleListAPIKeys)
			r.Delete("/apikeys/{id}", handler.handleDeleteAPIKey)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/users", handler.handleListUsers)
				r.Get("/stats", handler.handleAdminStats)
				// Revocation sits under /admin but is open to reviewers too;
				// the service enforces the actual role check.
				r.Post("/revoke/{id}", handler.handleRevokeCertificate)
				r.Post("/users/{id}/status", handler.handleUpdateUserStatus)
				r.Put("/users/{id}/trust", handler.handleUpdateUserTrust)
				r.Post("/users/{id}/verify-identity", handler.handleVerifyIdentity)
			})
		})
	})

	return r
}
