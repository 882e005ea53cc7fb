package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/domain"
	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/ports"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, params ports.CreateUserParams) (domain.User, error) {
	rec := userModel{
		UserID:       uuid.New(),
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		Role:         params.Role,
		TrustScore:   params.TrustScore,
		Status:       domain.UserStatusActive,
		CreatedAt:    params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrConflict
		}
		return domain.User{}, err
	}
	return toDomainUser(rec), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var row userModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(row), nil
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var row userModel
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return toDomainUser(row), nil
}

func (r *userRepository) List(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 200
	}
	var rows []userModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, toDomainUser(row))
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Count(&count).Error
	return count, err
}

func (r *userRepository) CountByRole(ctx context.Context, role string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Where("role = ?", role).Count(&count).Error
	return count, err
}

func (r *userRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&userModel{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *userRepository) UpdateStatus(ctx context.Context, userID uuid.UUID, status string) error {
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) SetTrustScore(ctx context.Context, userID uuid.UUID, score int) error {
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Update("trust_score", score)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) SetIdentityVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	res := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", userID).
		Update("identity_verified", verified)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ApplyTrustDelta clamps and applies the delta in one statement so two
// concurrent outcomes for the same creator serialize on the row without a
// read-modify-write race.
func (r *userRepository) ApplyTrustDelta(ctx context.Context, userID uuid.UUID, delta, verifiedInc, rejectedInc int) (ports.TrustUpdate, error) {
	var newScore int
	err := r.db.WithContext(ctx).Raw(`
		UPDATE users
		SET trust_score = GREATEST(0, LEAST(100, trust_score + ?)),
		    verified_posts = verified_posts + ?,
		    rejected_posts = rejected_posts + ?
		WHERE user_id = ?
		RETURNING trust_score`,
		delta, verifiedInc, rejectedInc, userID,
	).Scan(&newScore).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.TrustUpdate{}, domain.ErrNotFound
		}
		return ports.TrustUpdate{}, err
	}
	return ports.TrustUpdate{NewScore: newScore}, nil
}
