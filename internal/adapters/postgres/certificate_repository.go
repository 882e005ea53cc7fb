package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/ports"
	"gorm.io/gorm"
)

type certificateRepository struct {
	db *gorm.DB
}

func (r *certificateRepository) Insert(ctx context.Context, cert domain.Certificate) error {
	rec := certificateModel{
		CertificateID:  cert.CertificateID,
		SubmissionID:   cert.SubmissionID,
		CreatorID:      cert.CreatorID,
		CreatorName:    cert.CreatorName,
		ContentTitle:   cert.ContentTitle,
		VerificationID: cert.VerificationID,
		ContentHash:    cert.ContentHash,
		Signature:      cert.Signature,
		IssuedAt:       cert.IssuedAt,
		Status:         cert.Status,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *certificateRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Certificate, error) {
	var row certificateModel
	if err := r.db.WithContext(ctx).Where("certificate_id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Certificate{}, domain.ErrNotFound
		}
		return domain.Certificate{}, err
	}
	return toDomainCertificate(row), nil
}

func (r *certificateRepository) GetByVerificationID(ctx context.Context, vid string) (domain.Certificate, error) {
	var row certificateModel
	if err := r.db.WithContext(ctx).Where("verification_id = ?", vid).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Certificate{}, domain.ErrNotFound
		}
		return domain.Certificate{}, err
	}
	return toDomainCertificate(row), nil
}

func (r *certificateRepository) GetBySubmissionID(ctx context.Context, submissionID uuid.UUID) (domain.Certificate, error) {
	var row certificateModel
	if err := r.db.WithContext(ctx).Where("submission_id = ?", submissionID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Certificate{}, domain.ErrNotFound
		}
		return domain.Certificate{}, err
	}
	return toDomainCertificate(row), nil
}

func (r *certificateRepository) ListActiveByCreator(ctx context.Context, creatorID uuid.UUID, limit int) ([]domain.Certificate, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []certificateModel
	err := r.db.WithContext(ctx).
		Where("creator_id = ?", creatorID).
		Where("status = ?", domain.CertificateActive).
		Order("issued_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	certs := make([]domain.Certificate, 0, len(rows))
	for _, row := range rows {
		certs = append(certs, toDomainCertificate(row))
	}
	return certs, nil
}

func (r *certificateRepository) SearchRegistry(ctx context.Context, search string, offset, limit int) (ports.RegistryPage, error) {
	q := r.db.WithContext(ctx).Model(&certificateModel{}).
		Where("status = ?", domain.CertificateActive)
	if search != "" {
		pattern := "%" + search + "%"
		q = q.Where("content_title ILIKE ? OR creator_name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return ports.RegistryPage{}, err
	}

	var rows []certificateModel
	if err := q.Order("issued_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return ports.RegistryPage{}, err
	}
	certs := make([]domain.Certificate, 0, len(rows))
	for _, row := range rows {
		certs = append(certs, toDomainCertificate(row))
	}
	return ports.RegistryPage{Certificates: certs, Total: total}, nil
}

// Revoke only transitions active rows. A zero-row update distinguishes an
// unknown certificate from one already revoked.
func (r *certificateRepository) Revoke(ctx context.Context, id uuid.UUID, revokedAt time.Time, reason string) error {
	res := r.db.WithContext(ctx).
		Model(&certificateModel{}).
		Where("certificate_id = ?", id).
		Where("status = ?", domain.CertificateActive).
		Updates(map[string]any{
			"status":            domain.CertificateRevoked,
			"revoked_at":        revokedAt,
			"revocation_reason": reason,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&certificateModel{}).
			Where("certificate_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrAlreadyRevoked
	}
	return nil
}

func (r *certificateRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&certificateModel{}).
		Where("status = ?", status).Count(&count).Error
	return count, err
}
