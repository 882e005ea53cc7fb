package ports

import (
	"time"

	"github.com/google/uuid"
)

// PasswordHasher abstracts credential hashing so the application layer stays
// crypto-library agnostic.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// AuthClaims is the adapter-neutral bearer-token payload.
type AuthClaims struct {
	UserID    uuid.UUID
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenSigner signs and validates the session bearer tokens issued at login.
type TokenSigner interface {
	Sign(claims AuthClaims) (string, error)
	ParseAndValidate(raw string) (AuthClaims, error)
}
