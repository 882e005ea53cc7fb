package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
	"gorm.io/gorm"
)

type apiKeyRepository struct {
	db *gorm.DB
}

func (r *apiKeyRepository) Insert(ctx context.Context, key domain.APIKey) error {
	rec := apiKeyModel{
		KeyID:      key.KeyID,
		KeyValue:   key.KeyValue,
		Name:       key.Name,
		OwnerID:    key.OwnerID,
		OwnerName:  key.OwnerName,
		CreatedAt:  key.CreatedAt,
		IsActive:   key.IsActive,
		UsageCount: key.UsageCount,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *apiKeyRepository) GetActiveByValue(ctx context.Context, value string) (domain.APIKey, error) {
	var row apiKeyModel
	err := r.db.WithContext(ctx).
		Where("key_value = ?", value).
		Where("is_active = TRUE").
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.APIKey{}, domain.ErrNotFound
		}
		return domain.APIKey{}, err
	}
	return toDomainAPIKey(row), nil
}

func (r *apiKeyRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.APIKey, error) {
	var row apiKeyModel
	if err := r.db.WithContext(ctx).Where("key_id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.APIKey{}, domain.ErrNotFound
		}
		return domain.APIKey{}, err
	}
	return toDomainAPIKey(row), nil
}

func (r *apiKeyRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.APIKey, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []apiKeyModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	keys := make([]domain.APIKey, 0, len(rows))
	for _, row := range rows {
		keys = append(keys, toDomainAPIKey(row))
	}
	return keys, nil
}

func (r *apiKeyRepository) CountActiveByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&apiKeyModel{}).
		Where("owner_id = ?", ownerID).
		Where("is_active = TRUE").
		Count(&count).Error
	return count, err
}

func (r *apiKeyRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&apiKeyModel{}).
		Where("key_id = ?", id).
		Update("is_active", false)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *apiKeyRepository) RecordUsage(ctx context.Context, id uuid.UUID, usedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&apiKeyModel{}).
		Where("key_id = ?", id).
		Updates(map[string]any{
			"usage_count":  gorm.Expr("usage_count + 1"),
			"last_used_at": usedAt,
		}).Error
}

func (r *apiKeyRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&apiKeyModel{}).
		Where("is_active = TRUE").
		Count(&count).Error
	return count, err
}
