package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/ports"
	"gorm.io/gorm"
)

type submissionRepository struct {
	db *gorm.DB
}

func (r *submissionRepository) Create(ctx context.Context, s domain.Submission) error {
	style, err := json.Marshal(s.Stylometry)
	if err != nil {
		return err
	}
	rec := submissionModel{
		SubmissionID:     s.SubmissionID,
		CreatorID:        s.CreatorID,
		CreatorName:      s.CreatorName,
		Title:            s.Title,
		ContentText:      s.ContentText,
		ContentURL:       nullableString(s.ContentURL),
		HumanProbability: s.Detection.HumanProbability,
		AIProbability:    s.Detection.AIProbability,
		AIConfidence:     s.Detection.Confidence,
		AISource:         s.Detection.Source,
		StylometryScore:  s.Stylometry.Score,
		Stylometry:       string(style),
		Status:           s.Status,
		CreatedAt:        s.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Submission, error) {
	var row submissionModel
	if err := r.db.WithContext(ctx).Where("submission_id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Submission{}, domain.ErrNotFound
		}
		return domain.Submission{}, err
	}
	return toDomainSubmission(row), nil
}

func (r *submissionRepository) List(ctx context.Context, filter ports.SubmissionFilter) ([]domain.Submission, error) {
	q := r.db.WithContext(ctx).Model(&submissionModel{})
	if filter.CreatorID != nil {
		q = q.Where("creator_id = ?", *filter.CreatorID)
	}
	if len(filter.Statuses) > 0 {
		q = q.Where("status IN ?", filter.Statuses)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	var rows []submissionModel
	if err := q.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	items := make([]domain.Submission, 0, len(rows))
	for _, row := range rows {
		items = append(items, toDomainSubmission(row))
	}
	return items, nil
}

func (r *submissionRepository) Queue(ctx context.Context, limit int) ([]ports.QueueEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	type queueRow struct {
		submissionModel
		CreatorTrustScore int `gorm:"column:creator_trust_score"`
	}
	var rows []queueRow
	err := r.db.WithContext(ctx).
		Table("submissions").
		Select("submissions.*, COALESCE(users.trust_score, ?) AS creator_trust_score", domain.DefaultTrustScore).
		Joins("LEFT JOIN users ON users.user_id = submissions.creator_id").
		Where("submissions.status IN ?", []string{domain.SubmissionPending, domain.SubmissionFlagged}).
		Order("submissions.created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	entries := make([]ports.QueueEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, ports.QueueEntry{
			Submission:        toDomainSubmission(row.submissionModel),
			CreatorTrustScore: row.CreatorTrustScore,
		})
	}
	return entries, nil
}

func (r *submissionRepository) ApplyReview(ctx context.Context, id uuid.UUID, update ports.ReviewUpdate) error {
	res := r.db.WithContext(ctx).
		Model(&submissionModel{}).
		Where("submission_id = ?", id).
		Updates(map[string]any{
			"status":       update.Status,
			"review_notes": update.ReviewNotes,
			"reviewer_id":  update.ReviewerID,
			"reviewed_at":  update.ReviewedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LinkCertificate only writes while the linkage is empty, so a second issuance
// attempt for the same submission cannot overwrite the winner's certificate.
func (r *submissionRepository) LinkCertificate(ctx context.Context, id, certificateID uuid.UUID, verificationID string) error {
	res := r.db.WithContext(ctx).
		Model(&submissionModel{}).
		Where("submission_id = ?", id).
		Where("certificate_id IS NULL").
		Updates(map[string]any{
			"certificate_id":  certificateID,
			"verification_id": verificationID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&submissionModel{}).
			Where("submission_id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

func (r *submissionRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).
		Model(&submissionModel{}).
		Where("submission_id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *submissionRepository) CountByStatus(ctx context.Context, statuses ...string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&submissionModel{})
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *submissionRepository) CountByCreator(ctx context.Context, creatorID uuid.UUID, statuses ...string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&submissionModel{}).Where("creator_id = ?", creatorID)
	if len(statuses) > 0 {
		q = q.Where("status IN ?", statuses)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}
