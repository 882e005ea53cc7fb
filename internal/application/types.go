package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserView is the caller-facing identity projection (no password hash).
type UserView struct {
	UserID           uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	TrustScore       int        `json:"trust_score"`
	TrustLevel       string     `json:"trust_level"`
	VerifiedPosts    int        `json:"verified_posts"`
	RejectedPosts    int        `json:"rejected_posts"`
	IdentityVerified bool       `json:"identity_verified"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	LastUsedAt       *time.Time `json:"-"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserView `json:"user"`
}

type SubmissionRequest struct {
	Title       string `json:"title"`
	ContentText string `json:"content_text"`
	ContentURL  string `json:"content_url,omitempty"`
}

// SubmissionView is the submission projection returned to creators/reviewers.
type SubmissionView struct {
	SubmissionID     uuid.UUID         `json:"id"`
	CreatorID        uuid.UUID         `json:"creator_id"`
	CreatorName      string            `json:"creator_name"`
	Title            string            `json:"title"`
	ContentText      string            `json:"content_text"`
	ContentURL       string            `json:"content_url,omitempty"`
	AIHumanProb      float64           `json:"ai_human_probability"`
	AIAIProb         float64           `json:"ai_ai_probability"`
	AIConfidence     string            `json:"ai_confidence"`
	AISource         string            `json:"ai_source"`
	StylometryScore  float64           `json:"stylometry_score"`
	Stylometry       domain.Stylometry `json:"stylometry_features"`
	Status           string            `json:"status"`
	ReviewNotes      string            `json:"review_notes,omitempty"`
	ReviewerID       *uuid.UUID        `json:"reviewer_id,omitempty"`
	CertificateID    *uuid.UUID        `json:"certificate_id,omitempty"`
	VerificationID   string            `json:"verification_id,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	ReviewedAt       *time.Time        `json:"reviewed_at,omitempty"`
	CreatorTrust     *int              `json:"creator_trust_score,omitempty"`
	CreatorTrustTier string            `json:"creator_trust_level,omitempty"`
}

type ReviewRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

type ReviewResponse struct {
	Message      string    `json:"message"`
	SubmissionID uuid.UUID `json:"submission_id"`
}

// CertificateView round-trips every certificate field; the PDF renderer and
// the registry both consume it.
type CertificateView struct {
	CertificateID    uuid.UUID  `json:"id"`
	SubmissionID     uuid.UUID  `json:"submission_id"`
	CreatorID        uuid.UUID  `json:"creator_id"`
	CreatorName      string     `json:"creator_name"`
	ContentTitle     string     `json:"content_title"`
	VerificationID   string     `json:"verification_id"`
	ContentHash      string     `json:"content_hash"`
	Signature        string     `json:"signature"`
	IssuedAt         time.Time  `json:"timestamp"`
	Status           string     `json:"status"`
	RevokedAt        *time.Time `json:"revoked_at"`
	RevocationReason string     `json:"revocation_reason,omitempty"`
}

// VerificationResult is the bit-exact public verify shape.
type VerificationResult struct {
	Valid            bool       `json:"valid"`
	VerificationID   string     `json:"verification_id"`
	Status           string     `json:"status"`
	CreatorName      string     `json:"creator_name"`
	ContentTitle     string     `json:"content_title"`
	ContentHash      string     `json:"content_hash"`
	Timestamp        time.Time  `json:"timestamp"`
	RevokedAt        *time.Time `json:"revoked_at"`
	RevocationReason *string    `json:"revocation_reason"`
	Signature        string     `json:"signature"`
}

// ThirdPartyVerification is the keyed-surface variant: internal revocation
// fields are omitted, issuer and API version are included.
type ThirdPartyVerification struct {
	Valid          bool      `json:"valid"`
	VerificationID string    `json:"verification_id"`
	Status         string    `json:"status"`
	CreatorName    string    `json:"creator_name"`
	ContentTitle   string    `json:"content_title"`
	ContentHash    string    `json:"content_hash"`
	Timestamp      time.Time `json:"timestamp"`
	IssuedBy       string    `json:"issued_by"`
	APIVersion     string    `json:"api_version"`
}

type RegistryQuery struct {
	Search string
	Page   int
	Limit  int
}

type RegistryResponse struct {
	Certificates []CertificateView `json:"certificates"`
	Total        int64             `json:"total"`
	Page         int               `json:"page"`
	Pages        int               `json:"pages"`
}

type RegistryStats struct {
	TotalCertificates int64 `json:"total_certificates"`
	TotalCreators     int64 `json:"total_creators"`
	TotalSubmissions  int64 `json:"total_submissions"`
	PendingReview     int64 `json:"pending_review"`
	Revoked           int64 `json:"revoked"`
}

type ModerationStats struct {
	Pending  int64 `json:"pending"`
	Flagged  int64 `json:"flagged"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

type DashboardStats struct {
	Total         int64  `json:"total"`
	Approved      int64  `json:"approved"`
	Pending       int64  `json:"pending"`
	Rejected      int64  `json:"rejected"`
	Flagged       int64  `json:"flagged"`
	TrustScore    int    `json:"trust_score"`
	TrustLevel    string `json:"trust_level"`
	VerifiedPosts int    `json:"verified_posts"`
	RejectedPosts int    `json:"rejected_posts"`
}

type AdminStats struct {
	TotalUsers        int64 `json:"total_users"`
	Creators          int64 `json:"creators"`
	Reviewers         int64 `json:"reviewers"`
	Suspended         int64 `json:"suspended"`
	Banned            int64 `json:"banned"`
	TotalSubmissions  int64 `json:"total_submissions"`
	TotalCertificates int64 `json:"total_certificates"`
	PendingReview     int64 `json:"pending_review"`
	APIKeysActive     int64 `json:"api_keys_active"`
}

type CreatorProfile struct {
	Creator          UserView          `json:"creator"`
	Certificates     []CertificateView `json:"certificates"`
	CertificateCount int               `json:"certificate_count"`
}

type APIKeyRequest struct {
	Name string `json:"name"`
}

type APIKeyView struct {
	KeyID      uuid.UUID  `json:"id"`
	KeyValue   string     `json:"key_value,omitempty"`
	KeyPreview string     `json:"key_preview,omitempty"`
	Name       string     `json:"name"`
	OwnerID    uuid.UUID  `json:"owner_id"`
	OwnerName  string     `json:"owner_name"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
	IsActive   bool       `json:"is_active"`
	UsageCount int64      `json:"usage_count"`
}

type RevocationRequest struct {
	Reason string `json:"reason"`
}

type StatusUpdateResponse struct {
	Message string    `json:"message"`
	UserID  uuid.UUID `json:"user_id"`
}

type TrustUpdateResponse struct {
	Message    string `json:"message"`
	TrustScore int    `json:"trust_score"`
	TrustLevel string `json:"trust_level"`
}

type SeedAccount struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type SeedResponse struct {
	Message  string        `json:"message"`
	Accounts []SeedAccount `json:"accounts,omitempty"`
}

type UserStatusRequest struct {
	Status string `json:"status"`
}

type TrustScoreRequest struct {
	TrustScore int `json:"trust_score"`
}

func userView(u domain.User) UserView {
	return UserView{
		UserID:           u.UserID,
		Name:             u.Name,
		Email:            u.Email,
		Role:             u.Role,
		TrustScore:       u.TrustScore,
		TrustLevel:       domain.TrustLevel(u.TrustScore),
		VerifiedPosts:    u.VerifiedPosts,
		RejectedPosts:    u.RejectedPosts,
		IdentityVerified: u.IdentityVerified,
		Status:           u.Status,
		CreatedAt:        u.CreatedAt,
	}
}

func submissionView(s domain.Submission) SubmissionView {
	return SubmissionView{
		SubmissionID:    s.SubmissionID,
		CreatorID:       s.CreatorID,
		CreatorName:     s.CreatorName,
		Title:           s.Title,
		ContentText:     s.ContentText,
		ContentURL:      s.ContentURL,
		AIHumanProb:     s.Detection.HumanProbability,
		AIAIProb:        s.Detection.AIProbability,
		AIConfidence:    s.Detection.Confidence,
		AISource:        s.Detection.Source,
		StylometryScore: s.Stylometry.Score,
		Stylometry:      s.Stylometry,
		Status:          s.Status,
		ReviewNotes:     s.ReviewNotes,
		ReviewerID:      s.ReviewerID,
		CertificateID:   s.CertificateID,
		VerificationID:  s.VerificationID,
		CreatedAt:       s.CreatedAt,
		ReviewedAt:      s.ReviewedAt,
	}
}

func certificateView(c domain.Certificate) CertificateView {
	return CertificateView{
		CertificateID:    c.CertificateID,
		SubmissionID:     c.SubmissionID,
		CreatorID:        c.CreatorID,
		CreatorName:      c.CreatorName,
		ContentTitle:     c.ContentTitle,
		VerificationID:   c.VerificationID,
		ContentHash:      c.ContentHash,
		Signature:        c.Signature,
		IssuedAt:         c.IssuedAt,
		Status:           c.Status,
		RevokedAt:        c.RevokedAt,
		RevocationReason: c.RevocationReason,
	}
}
