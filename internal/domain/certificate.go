package domain

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Certificate states.
const (
	CertificateActive  = "active"
	CertificateRevoked = "revoked"
)

// VerificationIDPrefix heads every public verification ID.
const VerificationIDPrefix = "VH"

// Certificate is the tamper-evident record issued for an approved submission.
// Fingerprint and signature are immutable after issuance; only the status and
// revocation fields may change, and only through revocation.
type Certificate struct {
	CertificateID    uuid.UUID
	SubmissionID     uuid.UUID
	CreatorID        uuid.UUID
	CreatorName      string
	ContentTitle     string
	VerificationID   string
	ContentHash      string
	Signature        string
	IssuedAt         time.Time
	Status           string
	RevokedAt        *time.Time
	RevocationReason string
}

func (c Certificate) IsActive() bool { return c.Status == CertificateActive }

// APIKey is the capability token for the third-party read-only verify surface.
type APIKey struct {
	KeyID      uuid.UUID
	KeyValue   string
	Name       string
	OwnerID    uuid.UUID
	OwnerName  string
	CreatedAt  time.Time
	LastUsedAt *time.Time
	IsActive   bool
	UsageCount int64
}

// Preview masks the key value for listings, keeping prefix and tail visible.
func (k APIKey) Preview() string {
	if len(k.KeyValue) <= 20 {
		return k.KeyValue
	}
	return k.KeyValue[:16] + "..." + k.KeyValue[len(k.KeyValue)-4:]
}

// ContentFingerprint is the SHA-256 digest of the exact submitted text.
func ContentFingerprint(contentText string) string {
	sum := sha256.Sum256([]byte(contentText))
	return hex.EncodeToString(sum[:])
}

// SignCertificate computes the HMAC-SHA256 signature over
// "fingerprint:verificationID" with the server secret. The signature is
// published for independent verification; the server never re-validates it.
func SignCertificate(secret, fingerprint, verificationID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fingerprint + ":" + verificationID))
	return hex.EncodeToString(mac.Sum(nil))
}

// NewVerificationID generates a human-readable public identifier:
// fixed prefix, issuance year, six uppercase hex characters. Collisions are
// resolved by the store's uniqueness constraint and caller-side regeneration.
func NewVerificationID(now time.Time) (string, error) {
	suffix := make([]byte, 3)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generate verification id: %w", err)
	}
	return fmt.Sprintf("%s-%d-%s", VerificationIDPrefix, now.UTC().Year(),
		strings.ToUpper(hex.EncodeToString(suffix))), nil
}

// NewAPIKeyValue generates an opaque key value with the vhk_ prefix.
func NewAPIKeyValue() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate api key: %w", err)
	}
	return "vhk_" + hex.EncodeToString(raw), nil
}
