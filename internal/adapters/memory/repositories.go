// Package memory provides map-backed implementations of the persistence ports
// for tests and local development. Semantics mirror the postgres adapter:
// unique constraints surface domain.ErrConflict, conditional updates report
// domain.ErrNotFound / domain.ErrAlreadyRevoked the same way.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/ports"
)

type Repositories struct {
	Users        *UserRepository
	Submissions  *SubmissionRepository
	Certificates *CertificateRepository
	APIKeys      *APIKeyRepository
	Outbox       *OutboxRepository
}

func NewRepositories() *Repositories {
	users := &UserRepository{byID: map[uuid.UUID]domain.User{}}
	return &Repositories{
		Users:        users,
		Submissions:  &SubmissionRepository{byID: map[uuid.UUID]domain.Submission{}, users: users},
		Certificates: &CertificateRepository{byID: map[uuid.UUID]domain.Certificate{}},
		APIKeys:      &APIKeyRepository{byID: map[uuid.UUID]domain.APIKey{}},
		Outbox:       &OutboxRepository{},
	}
}

type UserRepository struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.User
}

func (r *UserRepository) Create(_ context.Context, params ports.CreateUserParams) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == params.Email {
			return domain.User{}, domain.ErrConflict
		}
	}
	user := domain.User{
		UserID:       uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		TrustScore:   params.TrustScore,
		Status:       domain.UserStatusActive,
		CreatedAt:    params.CreatedAt,
	}
	r.byID[user.UserID] = user
	return user, nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r *UserRepository) GetByID(_ context.Context, userID uuid.UUID) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) List(_ context.Context, limit int) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	users := make([]domain.User, 0, len(r.byID))
	for _, u := range r.byID {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *UserRepository) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.byID)), nil
}

func (r *UserRepository) CountByRole(_ context.Context, role string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.byID {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *UserRepository) CountByStatus(_ context.Context, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.byID {
		if u.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *UserRepository) UpdateStatus(_ context.Context, userID uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.Status = status
	r.byID[userID] = u
	return nil
}

func (r *UserRepository) SetTrustScore(_ context.Context, userID uuid.UUID, score int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.TrustScore = score
	r.byID[userID] = u
	return nil
}

func (r *UserRepository) SetIdentityVerified(_ context.Context, userID uuid.UUID, verified bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrNotFound
	}
	u.IdentityVerified = verified
	r.byID[userID] = u
	return nil
}

func (r *UserRepository) ApplyTrustDelta(_ context.Context, userID uuid.UUID, delta, verifiedInc, rejectedInc int) (ports.TrustUpdate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[userID]
	if !ok {
		return ports.TrustUpdate{}, domain.ErrNotFound
	}
	u.TrustScore = domain.ClampTrust(u.TrustScore + delta)
	u.VerifiedPosts += verifiedInc
	u.RejectedPosts += rejectedInc
	r.byID[userID] = u
	return ports.TrustUpdate{NewScore: u.TrustScore}, nil
}

type SubmissionRepository struct {
	mu    sync.Mutex
	byID  map[uuid.UUID]domain.Submission
	users *UserRepository
}

func (r *SubmissionRepository) Create(_ context.Context, s domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[s.SubmissionID]; exists {
		return domain.ErrConflict
	}
	r.byID[s.SubmissionID] = s
	return nil
}

func (r *SubmissionRepository) GetByID(_ context.Context, id uuid.UUID) (domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return domain.Submission{}, domain.ErrNotFound
	}
	return s, nil
}

func (r *SubmissionRepository) List(_ context.Context, filter ports.SubmissionFilter) ([]domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]domain.Submission, 0, len(r.byID))
	for _, s := range r.byID {
		if filter.CreatorID != nil && s.CreatorID != *filter.CreatorID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsString(filter.Statuses, s.Status) {
			continue
		}
		items = append(items, s)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (r *SubmissionRepository) Queue(ctx context.Context, limit int) ([]ports.QueueEntry, error) {
	r.mu.Lock()
	items := make([]domain.Submission, 0)
	for _, s := range r.byID {
		if s.Status == domain.SubmissionPending || s.Status == domain.SubmissionFlagged {
			items = append(items, s)
		}
	}
	r.mu.Unlock()

	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	entries := make([]ports.QueueEntry, 0, len(items))
	for _, s := range items {
		trust := domain.DefaultTrustScore
		if creator, err := r.users.GetByID(ctx, s.CreatorID); err == nil {
			trust = creator.TrustScore
		}
		entries = append(entries, ports.QueueEntry{Submission: s, CreatorTrustScore: trust})
	}
	return entries, nil
}

func (r *SubmissionRepository) ApplyReview(_ context.Context, id uuid.UUID, update ports.ReviewUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	reviewerID := update.ReviewerID
	reviewedAt := update.ReviewedAt
	s.Status = update.Status
	s.ReviewNotes = update.ReviewNotes
	s.ReviewerID = &reviewerID
	s.ReviewedAt = &reviewedAt
	r.byID[id] = s
	return nil
}

func (r *SubmissionRepository) LinkCertificate(_ context.Context, id, certificateID uuid.UUID, verificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if s.CertificateID != nil {
		return domain.ErrConflict
	}
	s.CertificateID = &certificateID
	s.VerificationID = verificationID
	r.byID[id] = s
	return nil
}

func (r *SubmissionRepository) SetStatus(_ context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	r.byID[id] = s
	return nil
}

func (r *SubmissionRepository) CountByStatus(_ context.Context, statuses ...string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.byID {
		if len(statuses) == 0 || containsString(statuses, s.Status) {
			n++
		}
	}
	return n, nil
}

func (r *SubmissionRepository) CountByCreator(_ context.Context, creatorID uuid.UUID, statuses ...string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.byID {
		if s.CreatorID != creatorID {
			continue
		}
		if len(statuses) == 0 || containsString(statuses, s.Status) {
			n++
		}
	}
	return n, nil
}

type CertificateRepository struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.Certificate
}

func (r *CertificateRepository) Insert(_ context.Context, cert domain.Certificate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.VerificationID == cert.VerificationID || c.SubmissionID == cert.SubmissionID {
			return domain.ErrConflict
		}
	}
	r.byID[cert.CertificateID] = cert
	return nil
}

func (r *CertificateRepository) GetByID(_ context.Context, id uuid.UUID) (domain.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return domain.Certificate{}, domain.ErrNotFound
	}
	return c, nil
}

func (r *CertificateRepository) GetByVerificationID(_ context.Context, vid string) (domain.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.VerificationID == vid {
			return c, nil
		}
	}
	return domain.Certificate{}, domain.ErrNotFound
}

func (r *CertificateRepository) GetBySubmissionID(_ context.Context, submissionID uuid.UUID) (domain.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if c.SubmissionID == submissionID {
			return c, nil
		}
	}
	return domain.Certificate{}, domain.ErrNotFound
}

func (r *CertificateRepository) ListActiveByCreator(_ context.Context, creatorID uuid.UUID, limit int) ([]domain.Certificate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	certs := make([]domain.Certificate, 0)
	for _, c := range r.byID {
		if c.CreatorID == creatorID && c.Status == domain.CertificateActive {
			certs = append(certs, c)
		}
	}
	sort.Slice(certs, func(i, j int) bool { return certs[i].IssuedAt.After(certs[j].IssuedAt) })
	if limit > 0 && len(certs) > limit {
		certs = certs[:limit]
	}
	return certs, nil
}

func (r *CertificateRepository) SearchRegistry(_ context.Context, search string, offset, limit int) (ports.RegistryPage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	needle := strings.ToLower(search)
	matched := make([]domain.Certificate, 0)
	for _, c := range r.byID {
		if c.Status != domain.CertificateActive {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.ContentTitle), needle) &&
			!strings.Contains(strings.ToLower(c.CreatorName), needle) {
			continue
		}
		matched = append(matched, c)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].IssuedAt.After(matched[j].IssuedAt) })

	total := int64(len(matched))
	if offset >= len(matched) {
		return ports.RegistryPage{Total: total}, nil
	}
	matched = matched[offset:]
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return ports.RegistryPage{Certificates: matched, Total: total}, nil
}

func (r *CertificateRepository) Revoke(_ context.Context, id uuid.UUID, revokedAt time.Time, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	if c.Status != domain.CertificateActive {
		return domain.ErrAlreadyRevoked
	}
	c.Status = domain.CertificateRevoked
	c.RevokedAt = &revokedAt
	c.RevocationReason = reason
	r.byID[id] = c
	return nil
}

func (r *CertificateRepository) CountByStatus(_ context.Context, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range r.byID {
		if c.Status == status {
			n++
		}
	}
	return n, nil
}

type APIKeyRepository struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.APIKey
}

func (r *APIKeyRepository) Insert(_ context.Context, key domain.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.byID {
		if k.KeyValue == key.KeyValue {
			return domain.ErrConflict
		}
	}
	r.byID[key.KeyID] = key
	return nil
}

func (r *APIKeyRepository) GetActiveByValue(_ context.Context, value string) (domain.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.byID {
		if k.KeyValue == value && k.IsActive {
			return k, nil
		}
	}
	return domain.APIKey{}, domain.ErrNotFound
}

func (r *APIKeyRepository) GetByID(_ context.Context, id uuid.UUID) (domain.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.byID[id]
	if !ok {
		return domain.APIKey{}, domain.ErrNotFound
	}
	return k, nil
}

func (r *APIKeyRepository) ListByOwner(_ context.Context, ownerID uuid.UUID, limit int) ([]domain.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]domain.APIKey, 0)
	for _, k := range r.byID {
		if k.OwnerID == ownerID {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].CreatedAt.After(keys[j].CreatedAt) })
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys, nil
}

func (r *APIKeyRepository) CountActiveByOwner(_ context.Context, ownerID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, k := range r.byID {
		if k.OwnerID == ownerID && k.IsActive {
			n++
		}
	}
	return n, nil
}

func (r *APIKeyRepository) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	k.IsActive = false
	r.byID[id] = k
	return nil
}

func (r *APIKeyRepository) RecordUsage(_ context.Context, id uuid.UUID, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.byID[id]
	if !ok {
		return domain.ErrNotFound
	}
	k.UsageCount++
	k.LastUsedAt = &usedAt
	r.byID[id] = k
	return nil
}

func (r *APIKeyRepository) CountActive(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, k := range r.byID {
		if k.IsActive {
			n++
		}
	}
	return n, nil
}

type outboxEntry struct {
	record ports.OutboxRecord
	claim  string
	until  time.Time
	dead   bool
}

type OutboxRepository struct {
	mu      sync.Mutex
	entries []*outboxEntry
}

func (r *OutboxRepository) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, &outboxEntry{record: ports.OutboxRecord{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      event.Payload,
		CreatedAt:    event.OccurredAt,
	}})
	return nil
}

func (r *OutboxRepository) ClaimUnpublished(_ context.Context, limit int, claimToken string, claimUntil time.Time) ([]ports.OutboxRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	claimed := make([]ports.OutboxRecord, 0, limit)
	for _, e := range r.entries {
		if len(claimed) >= limit {
			break
		}
		if e.record.PublishedAt != nil || e.dead {
			continue
		}
		if e.claim != "" && e.until.After(now) {
			continue
		}
		e.claim = claimToken
		e.until = claimUntil
		claimed = append(claimed, e.record)
	}
	return claimed, nil
}

func (r *OutboxRepository) MarkPublished(_ context.Context, outboxID uuid.UUID, claimToken string, publishedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.record.OutboxID == outboxID && e.claim == claimToken {
			e.record.PublishedAt = &publishedAt
			e.claim = ""
		}
	}
	return nil
}

func (r *OutboxRepository) MarkFailed(_ context.Context, outboxID uuid.UUID, claimToken, reason string, failedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.record.OutboxID == outboxID && e.claim == claimToken {
			e.record.RetryCount++
			e.record.LastError = &reason
			e.record.LastErrorAt = &failedAt
			e.claim = ""
		}
	}
	return nil
}

func (r *OutboxRepository) MarkDeadLettered(_ context.Context, outboxID uuid.UUID, claimToken, reason string, deadAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.record.OutboxID == outboxID && e.claim == claimToken {
			e.dead = true
			e.record.LastError = &reason
			e.record.LastErrorAt = &deadAt
			e.claim = ""
		}
	}
	return nil
}

// Events returns the enqueued event types in insertion order, for assertions.
func (r *OutboxRepository) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	types := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		types = append(types, e.record.EventType)
	}
	return types
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
