package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Submission lifecycle states.
const (
	SubmissionPending           = "pending"
	SubmissionFlagged           = "flagged"
	SubmissionReviewing         = "reviewing"
	SubmissionApproved          = "approved"
	SubmissionRejected          = "rejected"
	SubmissionRevisionRequested = "revision_requested"
)

// MinContentLength is the minimum trimmed content length accepted for scoring.
// Shorter texts fail validation before any scoring or persistence happens.
const MinContentLength = 50

// Decision-policy thresholds. A high-trust creator with a sufficiently
// human-looking text is certified without review; a strongly machine-looking
// text is flagged regardless of who submitted it.
const (
	AutoApproveMinProbability = 0.75
	FlagMaxProbability        = 0.40
)

// Submission pairs an immutable content snapshot with its mutable review state.
type Submission struct {
	SubmissionID   uuid.UUID
	CreatorID      uuid.UUID
	CreatorName    string
	Title          string
	ContentText    string
	ContentURL     string
	Detection      Detection
	Stylometry     Stylometry
	Status         string
	ReviewNotes    string
	ReviewerID     *uuid.UUID
	CertificateID  *uuid.UUID
	VerificationID string
	CreatedAt      time.Time
	ReviewedAt     *time.Time
}

// ValidateContent enforces the pre-scoring content contract.
func ValidateContent(title, contentText string) error {
	if strings.TrimSpace(title) == "" {
		return ErrInvalidInput
	}
	if len([]rune(strings.TrimSpace(contentText))) < MinContentLength {
		return ErrInvalidInput
	}
	return nil
}

// InitialStatus is the submission-time decision policy: the submitter's trust
// level and the scorer's human probability jointly pick the starting state.
func InitialStatus(trustLevel string, humanProbability float64) string {
	if trustLevel == TrustHigh && humanProbability >= AutoApproveMinProbability {
		return SubmissionApproved
	}
	if humanProbability < FlagMaxProbability {
		return SubmissionFlagged
	}
	return SubmissionPending
}

// IsReviewable reports whether a human decision may still be applied.
func IsReviewable(status string) bool {
	switch status {
	case SubmissionPending, SubmissionFlagged, SubmissionReviewing:
		return true
	default:
		return false
	}
}

// IsValidDecision restricts reviewer decisions to the allowed terminal set.
func IsValidDecision(decision string) bool {
	switch decision {
	case SubmissionApproved, SubmissionRejected, SubmissionRevisionRequested:
		return true
	default:
		return false
	}
}
