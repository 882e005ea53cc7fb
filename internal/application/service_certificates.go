package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
)

const registryPageLimit = 20

// issueCertificate mints at most one certificate per submission. The store's
// unique constraint on submission_id is the arbiter: a conflict there means
// another issuance won and its certificate is returned instead. A conflict on
// verification_id is a random collision and is retried with a fresh ID.
func (s *Service) issueCertificate(ctx context.Context, sub domain.Submission) (domain.Certificate, error) {
	fingerprint := domain.ContentFingerprint(sub.ContentText)
	now := s.nowFn()

	var cert domain.Certificate
	inserted := false
	for attempt := 0; attempt < s.cfg.VerificationRetries; attempt++ {
		vid, err := domain.NewVerificationID(now)
		if err != nil {
			return domain.Certificate{}, err
		}
		cert = domain.Certificate{
			CertificateID:  uuid.New(),
			SubmissionID:   sub.SubmissionID,
			CreatorID:      sub.CreatorID,
			CreatorName:    sub.CreatorName,
			ContentTitle:   sub.Title,
			VerificationID: vid,
			ContentHash:    fingerprint,
			Signature:      domain.SignCertificate(s.cfg.HMACSecret, fingerprint, vid),
			IssuedAt:       now,
			Status:         domain.CertificateActive,
		}
		err = s.certificates.Insert(ctx, cert)
		if err == nil {
			inserted = true
			break
		}
		if !errors.Is(err, domain.ErrConflict) {
			return domain.Certificate{}, err
		}
		if existing, lookupErr := s.certificates.GetBySubmissionID(ctx, sub.SubmissionID); lookupErr == nil {
			return existing, nil
		}
		// Conflict without an existing certificate for this submission is a
		// verification ID collision; regenerate and retry.
	}
	if !inserted {
		return domain.Certificate{}, fmt.Errorf("issue certificate for %s: exhausted verification id attempts", sub.SubmissionID)
	}

	if err := s.submissions.LinkCertificate(ctx, sub.SubmissionID, cert.CertificateID, cert.VerificationID); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			if existing, lookupErr := s.certificates.GetBySubmissionID(ctx, sub.SubmissionID); lookupErr == nil {
				return existing, nil
			}
		}
		return domain.Certificate{}, err
	}

	s.enqueueEvent(ctx, "certificate.issued", sub.CreatorID.String(), map[string]any{
		"certificate_id":  cert.CertificateID,
		"submission_id":   sub.SubmissionID,
		"verification_id": cert.VerificationID,
	})
	return cert, nil
}

func (s *Service) GetCertificate(ctx context.Context, id uuid.UUID) (CertificateView, error) {
	cert, err := s.certificates.GetByID(ctx, id)
	if err != nil {
		return CertificateView{}, err
	}
	return certificateView(cert), nil
}

// VerifyCertificate is the public lookup keyed by verification ID. Results for
// active certificates are served from the cache when available; revocation
// invalidates the entry, so a stale positive can only outlive revocation by a
// cache round trip.
func (s *Service) VerifyCertificate(ctx context.Context, verificationID string) (VerificationResult, error) {
	vid := strings.TrimSpace(verificationID)
	if vid == "" {
		return VerificationResult{}, fmt.Errorf("%w: verification id required", domain.ErrInvalidInput)
	}

	if s.verifyCache != nil {
		if payload, ok := s.verifyCache.Get(ctx, vid); ok {
			var cached VerificationResult
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached, nil
			}
		}
	}

	cert, err := s.certificates.GetByVerificationID(ctx, vid)
	if err != nil {
		return VerificationResult{}, err
	}
	result := verificationResult(cert)

	if s.verifyCache != nil && cert.IsActive() {
		if payload, err := json.Marshal(result); err == nil {
			s.verifyCache.Put(ctx, vid, payload)
		}
	}
	return result, nil
}

func verificationResult(cert domain.Certificate) VerificationResult {
	result := VerificationResult{
		Valid:          cert.IsActive(),
		VerificationID: cert.VerificationID,
		Status:         cert.Status,
		CreatorName:    cert.CreatorName,
		ContentTitle:   cert.ContentTitle,
		ContentHash:    cert.ContentHash,
		Timestamp:      cert.IssuedAt,
		RevokedAt:      cert.RevokedAt,
		Signature:      cert.Signature,
	}
	if cert.RevocationReason != "" {
		reason := cert.RevocationReason
		result.RevocationReason = &reason
	}
	return result
}

// Registry serves the public, paginated certificate index. Only active
// certificates appear; revoked ones drop out immediately.
func (s *Service) Registry(ctx context.Context, query RegistryQuery) (RegistryResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit < 1 {
		limit = registryPageLimit
	}
	if limit > 50 {
		limit = 50
	}

	result, err := s.certificates.SearchRegistry(ctx, strings.TrimSpace(query.Search), (page-1)*limit, limit)
	if err != nil {
		return RegistryResponse{}, err
	}

	views := make([]CertificateView, 0, len(result.Certificates))
	for _, cert := range result.Certificates {
		views = append(views, certificateView(cert))
	}
	pages := int((result.Total + int64(limit) - 1) / int64(limit))
	return RegistryResponse{
		Certificates: views,
		Total:        result.Total,
		Page:         page,
		Pages:        pages,
	}, nil
}

func (s *Service) RegistryStats(ctx context.Context) (RegistryStats, error) {
	var stats RegistryStats
	var err error
	if stats.TotalCertificates, err = s.certificates.CountByStatus(ctx, domain.CertificateActive); err != nil {
		return RegistryStats{}, err
	}
	if stats.Revoked, err = s.certificates.CountByStatus(ctx, domain.CertificateRevoked); err != nil {
		return RegistryStats{}, err
	}
	if stats.TotalCreators, err = s.users.CountByRole(ctx, domain.RoleCreator); err != nil {
		return RegistryStats{}, err
	}
	if stats.TotalSubmissions, err = s.submissions.CountByStatus(ctx); err != nil {
		return RegistryStats{}, err
	}
	if stats.PendingReview, err = s.submissions.CountByStatus(ctx, domain.SubmissionPending); err != nil {
		return RegistryStats{}, err
	}
	return stats, nil
}

// RevokeCertificate is the fraud path: the certificate flips to revoked,
// the linked submission is flagged, and the creator takes the fraud penalty.
// The certificate write is the commit point; a crash after it leaves the
// certificate revoked, which is the failure mode the registry must never lie
// about.
func (s *Service) RevokeCertificate(ctx context.Context, principal domain.Principal, id uuid.UUID, req RevocationRequest) (CertificateView, error) {
	if !principal.IsReviewer() {
		return CertificateView{}, domain.ErrForbidden
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return CertificateView{}, fmt.Errorf("%w: revocation reason required", domain.ErrInvalidInput)
	}

	cert, err := s.certificates.GetByID(ctx, id)
	if err != nil {
		return CertificateView{}, err
	}
	now := s.nowFn()
	if err := s.certificates.Revoke(ctx, id, now, reason); err != nil {
		return CertificateView{}, err
	}
	cert.Status = domain.CertificateRevoked
	cert.RevokedAt = &now
	cert.RevocationReason = reason

	if s.verifyCache != nil {
		s.verifyCache.Invalidate(ctx, cert.VerificationID)
	}
	if err := s.submissions.SetStatus(ctx, cert.SubmissionID, domain.SubmissionFlagged); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return CertificateView{}, err
	}
	if _, err := s.applyTrustOutcome(ctx, cert.CreatorID, domain.OutcomeFraud); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return CertificateView{}, err
	}
	s.enqueueEvent(ctx, "certificate.revoked", cert.CreatorID.String(), map[string]any{
		"certificate_id":  cert.CertificateID,
		"verification_id": cert.VerificationID,
		"reason":          reason,
	})
	return certificateView(cert), nil
}
