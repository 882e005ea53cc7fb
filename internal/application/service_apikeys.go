package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
)

// ThirdPartyAPIVersion tags responses on the keyed verify surface.
const ThirdPartyAPIVersion = "v1"

const thirdPartyIssuer = "TrustInk"

// CreateAPIKey mints a verification key for the caller. The full key value is
// returned exactly once; listings only ever show the masked preview.
func (s *Service) CreateAPIKey(ctx context.Context, principal domain.Principal, req APIKeyRequest) (APIKeyView, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return APIKeyView{}, fmt.Errorf("%w: key name required", domain.ErrInvalidInput)
	}
	active, err := s.apiKeys.CountActiveByOwner(ctx, principal.UserID)
	if err != nil {
		return APIKeyView{}, err
	}
	if active >= int64(s.cfg.MaxActiveAPIKeys) {
		return APIKeyView{}, fmt.Errorf("%w: active key limit reached", domain.ErrConflict)
	}

	value, err := domain.NewAPIKeyValue()
	if err != nil {
		return APIKeyView{}, err
	}
	key := domain.APIKey{
		KeyID:     uuid.New(),
		KeyValue:  value,
		Name:      name,
		OwnerID:   principal.UserID,
		OwnerName: principal.Name,
		CreatedAt: s.nowFn(),
		IsActive:  true,
	}
	if err := s.apiKeys.Insert(ctx, key); err != nil {
		return APIKeyView{}, err
	}

	return APIKeyView{
		KeyID:     key.KeyID,
		KeyValue:  key.KeyValue,
		Name:      key.Name,
		OwnerID:   key.OwnerID,
		OwnerName: key.OwnerName,
		CreatedAt: key.CreatedAt,
		IsActive:  true,
	}, nil
}

// ListAPIKeys returns the caller's keys with values masked.
func (s *Service) ListAPIKeys(ctx context.Context, principal domain.Principal) ([]APIKeyView, error) {
	keys, err := s.apiKeys.ListByOwner(ctx, principal.UserID, s.cfg.ListLimit)
	if err != nil {
		return nil, err
	}
	views := make([]APIKeyView, 0, len(keys))
	for _, key := range keys {
		views = append(views, APIKeyView{
			KeyID:      key.KeyID,
			KeyPreview: key.Preview(),
			Name:       key.Name,
			OwnerID:    key.OwnerID,
			OwnerName:  key.OwnerName,
			CreatedAt:  key.CreatedAt,
			LastUsedAt: key.LastUsedAt,
			IsActive:   key.IsActive,
			UsageCount: key.UsageCount,
		})
	}
	return views, nil
}

// DeleteAPIKey deactivates a key. Owners manage their own keys; admins may
// deactivate any. Deactivation is soft so usage history survives.
func (s *Service) DeleteAPIKey(ctx context.Context, principal domain.Principal, keyID uuid.UUID) error {
	key, err := s.apiKeys.GetByID(ctx, keyID)
	if err != nil {
		return err
	}
	if key.OwnerID != principal.UserID && !principal.IsAdmin() {
		return domain.ErrForbidden
	}
	return s.apiKeys.Deactivate(ctx, keyID)
}

// ThirdPartyVerify serves the keyed integration surface. The key must be
// active, the per-key rate limit must allow the call, and usage is recorded
// best effort after a successful lookup.
func (s *Service) ThirdPartyVerify(ctx context.Context, rawKey, verificationID string) (ThirdPartyVerification, error) {
	rawKey = strings.TrimSpace(rawKey)
	if rawKey == "" {
		return ThirdPartyVerification{}, fmt.Errorf("%w: api key required", domain.ErrUnauthorized)
	}
	key, err := s.apiKeys.GetActiveByValue(ctx, rawKey)
	if err != nil {
		return ThirdPartyVerification{}, fmt.Errorf("%w: invalid api key", domain.ErrForbidden)
	}

	if s.rateLimiter != nil {
		allowed, err := s.rateLimiter.Allow(ctx, key.KeyID.String())
		if err == nil && !allowed {
			return ThirdPartyVerification{}, domain.ErrRateLimited
		}
	}

	cert, err := s.certificates.GetByVerificationID(ctx, strings.TrimSpace(verificationID))
	if err != nil {
		return ThirdPartyVerification{}, err
	}
	_ = s.apiKeys.RecordUsage(ctx, key.KeyID, s.nowFn())

	return ThirdPartyVerification{
		Valid:          cert.IsActive(),
		VerificationID: cert.VerificationID,
		Status:         cert.Status,
		CreatorName:    cert.CreatorName,
		ContentTitle:   cert.ContentTitle,
		ContentHash:    cert.ContentHash,
		Timestamp:      cert.IssuedAt,
		IssuedBy:       thirdPartyIssuer,
		APIVersion:     ThirdPartyAPIVersion,
	}, nil
}
