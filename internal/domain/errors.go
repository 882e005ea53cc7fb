package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether the email or the password failed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountBanned blocks login for banned accounts.
	ErrAccountBanned = errors.New("account banned")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidInput  = errors.New("invalid input")
	ErrConflict      = errors.New("conflict")
	ErrTokenExpired  = errors.New("token expired")
	ErrRateLimited   = errors.New("rate limited")
	// ErrNotReviewable is returned when a reviewer decision targets a submission
	// outside the pending/flagged/reviewing states.
	ErrNotReviewable = errors.New("submission not reviewable")
	// ErrAlreadyRevoked guards the terminal revocation transition.
	ErrAlreadyRevoked = errors.New("certificate already revoked")
)
