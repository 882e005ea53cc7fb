package application

import (
	"math/rand"
	"time"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/ports"
)

// Config is the immutable policy/secret configuration injected at construction.
// Core logic never reads ambient process state.
type Config struct {
	HMACSecret          string
	TokenTTL            time.Duration
	MaxActiveAPIKeys    int
	VerificationRetries int
	QueueLimit          int
	ListLimit           int
}

func (c Config) withDefaults() Config {
	if c.TokenTTL <= 0 {
		c.TokenTTL = 24 * time.Hour
	}
	if c.MaxActiveAPIKeys <= 0 {
		c.MaxActiveAPIKeys = 10
	}
	if c.VerificationRetries <= 0 {
		c.VerificationRetries = 5
	}
	if c.QueueLimit <= 0 {
		c.QueueLimit = 100
	}
	if c.ListLimit <= 0 {
		c.ListLimit = 200
	}
	return c
}

// Service orchestrates the trust & certification engine across the
// create/review lifecycle. All store access goes through ports so the engine
// holds no shared mutable state of its own.
type Service struct {
	cfg          Config
	users        ports.UserRepository
	submissions  ports.SubmissionRepository
	certificates ports.CertificateRepository
	apiKeys      ports.APIKeyRepository
	outbox       ports.OutboxRepository
	scorer       ports.ContentScorer
	hasher       ports.PasswordHasher
	tokenSigner  ports.TokenSigner
	verifyCache  ports.VerificationCache
	rateLimiter  ports.RateLimiter
	jitter       domain.Jitter
	nowFn        func() time.Time
}

type Dependencies struct {
	Config       Config
	Users        ports.UserRepository
	Submissions  ports.SubmissionRepository
	Certificates ports.CertificateRepository
	APIKeys      ports.APIKeyRepository
	Outbox       ports.OutboxRepository
	Scorer       ports.ContentScorer
	Hasher       ports.PasswordHasher
	TokenSigner  ports.TokenSigner
	// VerifyCache and RateLimiter are optional; nil disables caching and
	// third-party throttling respectively.
	VerifyCache ports.VerificationCache
	RateLimiter ports.RateLimiter
	// Jitter seeds the stylometry heuristic; tests pin it to domain.ZeroJitter.
	Jitter domain.Jitter
	NowFn  func() time.Time
}

func NewService(deps Dependencies) *Service {
	jitter := deps.Jitter
	if jitter == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		jitter = func(min, max float64) float64 {
			return min + rng.Float64()*(max-min)
		}
	}
	nowFn := deps.NowFn
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		cfg:          deps.Config.withDefaults(),
		users:        deps.Users,
		submissions:  deps.Submissions,
		certificates: deps.Certificates,
		apiKeys:      deps.APIKeys,
		outbox:       deps.Outbox,
		scorer:       deps.Scorer,
		hasher:       deps.Hasher,
		tokenSigner:  deps.TokenSigner,
		verifyCache:  deps.VerifyCache,
		rateLimiter:  deps.RateLimiter,
		jitter:       jitter,
		nowFn:        nowFn,
	}
}
