package ports

import (
	"context"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
)

// ContentScorer produces the AI-likelihood verdict for a text.
// Implementations must degrade silently: the caller always receives a valid
// detection, never an error, even when the remote classifier is unreachable.
type ContentScorer interface {
	Score(ctx context.Context, text string) domain.Detection
}

// VerificationCache is a best-effort read cache for public verify lookups.
// Misses and cache errors fall through to the store.
type VerificationCache interface {
	Get(ctx context.Context, verificationID string) ([]byte, bool)
	Put(ctx context.Context, verificationID string, payload []byte)
	Invalidate(ctx context.Context, verificationID string)
}

// RateLimiter bounds the third-party keyed surface per API key.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
