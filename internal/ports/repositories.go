package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
)

// CreateUserParams captures registration inputs after validation/coercion.
type CreateUserParams struct {
	Name         string
	Email        string
	PasswordHash string
	Role         string
	TrustScore   int
	CreatedAt    time.Time
}

// TrustUpdate is the result of an atomic ledger application.
type TrustUpdate struct {
	NewScore int
}

// UserRepository defines persistence for creator/reviewer identities.
// ApplyTrustDelta must be a single conditional store-side update so concurrent
// outcome applications for one creator serialize without lost updates.
type UserRepository interface {
	Create(ctx context.Context, params CreateUserParams) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error)
	List(ctx context.Context, limit int) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error
	SetTrustScore(ctx context.Context, userID uuid.UUID, score int) error
	SetIdentityVerified(ctx context.Context, userID uuid.UUID, verified bool) error
	// ApplyTrustDelta clamps the score to [0,100] at the store and bumps the
	// verified/rejected counters when asked. Unknown users return ErrNotFound.
	ApplyTrustDelta(ctx context.Context, userID uuid.UUID, delta, verifiedInc, rejectedInc int) (TrustUpdate, error)
}

// SubmissionFilter narrows submission listings.
type SubmissionFilter struct {
	CreatorID *uuid.UUID
	Statuses  []string
	Limit     int
}

// QueueEntry joins a reviewable submission with its creator's current trust.
type QueueEntry struct {
	Submission        domain.Submission
	CreatorTrustScore int
}

// ReviewUpdate captures the mutable fields of a reviewer decision.
type ReviewUpdate struct {
	Status      string
	ReviewNotes string
	ReviewerID  uuid.UUID
	ReviewedAt  time.Time
}

// SubmissionRepository persists content submissions and their lifecycle fields.
type SubmissionRepository interface {
	Create(ctx context.Context, s domain.Submission) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Submission, error)
	List(ctx context.Context, filter SubmissionFilter) ([]domain.Submission, error)
	// Queue lists pending/flagged submissions oldest-first with creator trust joined.
	Queue(ctx context.Context, limit int) ([]QueueEntry, error)
	ApplyReview(ctx context.Context, id uuid.UUID, update ReviewUpdate) error
	// LinkCertificate is a compare-and-swap on the certificate linkage: it only
	// succeeds while certificate_id is unset, making issuance at-most-once.
	LinkCertificate(ctx context.Context, id, certificateID uuid.UUID, verificationID string) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	CountByStatus(ctx context.Context, statuses ...string) (int64, error)
	CountByCreator(ctx context.Context, creatorID uuid.UUID, statuses ...string) (int64, error)
}

// RegistryPage is one page of the public certificate registry.
type RegistryPage struct {
	Certificates []domain.Certificate
	Total        int64
}

// CertificateRepository persists issued certificates.
// Insert must surface domain.ErrConflict on either unique constraint
// (verification_id or submission_id) so the caller can distinguish retryable
// ID collisions from an already-issued submission.
type CertificateRepository interface {
	Insert(ctx context.Context, cert domain.Certificate) error
	GetByID(ctx context.Context, id uuid.UUID) (domain.Certificate, error)
	GetByVerificationID(ctx context.Context, vid string) (domain.Certificate, error)
	GetBySubmissionID(ctx context.Context, submissionID uuid.UUID) (domain.Certificate, error)
	ListActiveByCreator(ctx context.Context, creatorID uuid.UUID, limit int) ([]domain.Certificate, error)
	// SearchRegistry returns active certificates newest-first, optionally
	// filtered by a case-insensitive substring over title and creator name.
	SearchRegistry(ctx context.Context, search string, offset, limit int) (RegistryPage, error)
	// Revoke flips an active certificate to revoked; revoking twice fails with
	// domain.ErrAlreadyRevoked.
	Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time, reason string) error
	CountByStatus(ctx context.Context, status string) (int64, error)
}

// APIKeyRepository persists third-party verification keys.
type APIKeyRepository interface {
	Insert(ctx context.Context, key domain.APIKey) error
	GetActiveByValue(ctx context.Context, value string) (domain.APIKey, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.APIKey, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.APIKey, error)
	CountActiveByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	// RecordUsage bumps usage_count and stamps last_used_at atomically.
	RecordUsage(ctx context.Context, id uuid.UUID, usedAt time.Time) error
	CountActive(ctx context.Context) (int64, error)
}
