package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userModel struct {
	UserID           uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	Name             string    `gorm:"column:name"`
	Email            string    `gorm:"column:email"`
	PasswordHash     string    `gorm:"column:password_hash"`
	Role             string    `gorm:"column:role"`
	TrustScore       int       `gorm:"column:trust_score"`
	VerifiedPosts    int       `gorm:"column:verified_posts"`
	RejectedPosts    int       `gorm:"column:rejected_posts"`
	IdentityVerified bool      `gorm:"column:identity_verified"`
	Status           string    `gorm:"column:status"`
	CreatedAt        time.Time `gorm:"column:created_at"`
}

func (userModel) TableName() string { return "users" }

type submissionModel struct {
	SubmissionID     uuid.UUID  `gorm:"column:submission_id;type:uuid;primaryKey"`
	CreatorID        uuid.UUID  `gorm:"column:creator_id"`
	CreatorName      string     `gorm:"column:creator_name"`
	Title            string     `gorm:"column:title"`
	ContentText      string     `gorm:"column:content_text"`
	ContentURL       *string    `gorm:"column:content_url"`
	HumanProbability float64    `gorm:"column:ai_human_probability"`
	AIProbability    float64    `gorm:"column:ai_ai_probability"`
	AIConfidence     string     `gorm:"column:ai_confidence"`
	AISource         string     `gorm:"column:ai_source"`
	StylometryScore  float64    `gorm:"column:stylometry_score"`
	Stylometry       string     `gorm:"column:stylometry;type:jsonb"`
	Status           string     `gorm:"column:status"`
	ReviewNotes      string     `gorm:"column:review_notes"`
	ReviewerID       *uuid.UUID `gorm:"column:reviewer_id"`
	CertificateID    *uuid.UUID `gorm:"column:certificate_id"`
	VerificationID   *string    `gorm:"column:verification_id"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
	ReviewedAt       *time.Time `gorm:"column:reviewed_at"`
}

func (submissionModel) TableName() string { return "submissions" }

type certificateModel struct {
	CertificateID    uuid.UUID  `gorm:"column:certificate_id;type:uuid;primaryKey"`
	SubmissionID     uuid.UUID  `gorm:"column:submission_id"`
	CreatorID        uuid.UUID  `gorm:"column:creator_id"`
	CreatorName      string     `gorm:"column:creator_name"`
	ContentTitle     string     `gorm:"column:content_title"`
	VerificationID   string     `gorm:"column:verification_id"`
	ContentHash      string     `gorm:"column:content_hash"`
	Signature        string     `gorm:"column:signature"`
	IssuedAt         time.Time  `gorm:"column:issued_at"`
	Status           string     `gorm:"column:status"`
	RevokedAt        *time.Time `gorm:"column:revoked_at"`
	RevocationReason *string    `gorm:"column:revocation_reason"`
}

func (certificateModel) TableName() string { return "certificates" }

type apiKeyModel struct {
	KeyID      uuid.UUID  `gorm:"column:key_id;type:uuid;primaryKey"`
	KeyValue   string     `gorm:"column:key_value"`
	Name       string     `gorm:"column:name"`
	OwnerID    uuid.UUID  `gorm:"column:owner_id"`
	OwnerName  string     `gorm:"column:owner_name"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	LastUsedAt *time.Time `gorm:"column:last_used_at"`
	IsActive   bool       `gorm:"column:is_active"`
	UsageCount int64      `gorm:"column:usage_count"`
}

func (apiKeyModel) TableName() string { return "api_keys" }

type certOutboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (certOutboxModel) TableName() string { return "cert_outbox" }
