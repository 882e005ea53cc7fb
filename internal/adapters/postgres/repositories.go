package postgres

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Users        ports.UserRepository
	Submissions  ports.SubmissionRepository
	Certificates ports.CertificateRepository
	APIKeys      ports.APIKeyRepository
	Outbox       ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:        &userRepository{db: db},
		Submissions:  &submissionRepository{db: db},
		Certificates: &certificateRepository{db: db},
		APIKeys:      &apiKeyRepository{db: db},
		Outbox:       &outboxRepository{db: db},
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func nullableString(v string) *string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func toDomainUser(row userModel) domain.User {
	return domain.User{
		UserID:           row.UserID,
		Name:             row.Name,
		Email:            row.Email,
		PasswordHash:     row.PasswordHash,
		Role:             row.Role,
		TrustScore:       row.TrustScore,
		VerifiedPosts:    row.VerifiedPosts,
		RejectedPosts:    row.RejectedPosts,
		IdentityVerified: row.IdentityVerified,
		Status:           row.Status,
		CreatedAt:        row.CreatedAt.UTC(),
	}
}

func toDomainSubmission(row submissionModel) domain.Submission {
	var style domain.Stylometry
	_ = json.Unmarshal([]byte(row.Stylometry), &style)
	return domain.Submission{
		SubmissionID: row.SubmissionID,
		CreatorID:    row.CreatorID,
		CreatorName:  row.CreatorName,
		Title:        row.Title,
		ContentText:  row.ContentText,
		ContentURL:   derefString(row.ContentURL),
		Detection: domain.Detection{
			HumanProbability: row.HumanProbability,
			AIProbability:    row.AIProbability,
			Confidence:       row.AIConfidence,
			Source:           row.AISource,
		},
		Stylometry:     style,
		Status:         row.Status,
		ReviewNotes:    row.ReviewNotes,
		ReviewerID:     row.ReviewerID,
		CertificateID:  row.CertificateID,
		VerificationID: derefString(row.VerificationID),
		CreatedAt:      row.CreatedAt.UTC(),
		ReviewedAt:     row.ReviewedAt,
	}
}

func toDomainCertificate(row certificateModel) domain.Certificate {
	return domain.Certificate{
		CertificateID:    row.CertificateID,
		SubmissionID:     row.SubmissionID,
		CreatorID:        row.CreatorID,
		CreatorName:      row.CreatorName,
		ContentTitle:     row.ContentTitle,
		VerificationID:   row.VerificationID,
		ContentHash:      row.ContentHash,
		Signature:        row.Signature,
		IssuedAt:         row.IssuedAt.UTC(),
		Status:           row.Status,
		RevokedAt:        row.RevokedAt,
		RevocationReason: derefString(row.RevocationReason),
	}
}

func toDomainAPIKey(row apiKeyModel) domain.APIKey {
	return domain.APIKey{
		KeyID:      row.KeyID,
		KeyValue:   row.KeyValue,
		Name:       row.Name,
		OwnerID:    row.OwnerID,
		OwnerName:  row.OwnerName,
		CreatedAt:  row.CreatedAt.UTC(),
		LastUsedAt: row.LastUsedAt,
		IsActive:   row.IsActive,
		UsageCount: row.UsageCount,
	}
}
