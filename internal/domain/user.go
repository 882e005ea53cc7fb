package domain

import (
	"time"

	"github.com/google/uuid"
)

// Roles recognized by the service. Creators submit content, reviewers moderate,
// admins additionally manage accounts and revocations.
const (
	RoleCreator  = "creator"
	RoleReviewer = "reviewer"
	RoleAdmin    = "admin"
)

// Account lifecycle states.
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
	UserStatusBanned    = "banned"
)

// Trust-level buckets derived from the numeric trust score.
const (
	TrustLow    = "low"
	TrustMedium = "medium"
	TrustHigh   = "high"

	HighTrustThreshold   = 80
	MediumTrustThreshold = 50

	DefaultTrustScore = 50
)

// User is the creator/reviewer identity aggregate.
// Trust counters live here so the ledger can update them atomically with the score.
type User struct {
	UserID           uuid.UUID
	Name             string
	Email            string
	PasswordHash     string
	Role             string
	TrustScore       int
	VerifiedPosts    int
	RejectedPosts    int
	IdentityVerified bool
	Status           string
	CreatedAt        time.Time
}

// Principal is the authenticated caller threaded through application calls.
// It carries exactly the fields the core needs; the HTTP adapter builds it once
// per request from the bearer token.
type Principal struct {
	UserID     uuid.UUID
	Name       string
	Email      string
	Role       string
	TrustScore int
	Status     string
}

func (p Principal) IsReviewer() bool { return p.Role == RoleReviewer || p.Role == RoleAdmin }
func (p Principal) IsAdmin() bool    { return p.Role == RoleAdmin }

// TrustLevel maps a numeric trust score onto the coarse low/medium/high bucket.
// Every gate that cares about reputation must go through this one function.
func TrustLevel(score int) string {
	switch {
	case score >= HighTrustThreshold:
		return TrustHigh
	case score >= MediumTrustThreshold:
		return TrustMedium
	default:
		return TrustLow
	}
}

// Trust outcomes applied by the ledger in response to submission events.
const (
	OutcomeApproved         = "approved"
	OutcomeRejected         = "rejected"
	OutcomeFraud            = "fraud"
	OutcomeIdentityVerified = "identity_verified"
)

var trustDeltas = map[string]int{
	OutcomeApproved:         10,
	OutcomeRejected:         -20,
	OutcomeFraud:            -50,
	OutcomeIdentityVerified: 5,
}

// TrustDelta returns the signed score adjustment for an outcome.
// Unknown outcomes are explicit no-ops rather than errors.
func TrustDelta(outcome string) int {
	return trustDeltas[outcome]
}

// ClampTrust keeps a trust score inside the [0,100] invariant.
func ClampTrust(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func IsValidRole(role string) bool {
	return role == RoleCreator || role == RoleReviewer || role == RoleAdmin
}

func IsValidUserStatus(status string) bool {
	return status == UserStatusActive || status == UserStatusSuspended || status == UserStatusBanned
}
