package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OutboxEvent is the write-side event payload prior to storage.
// It is adapter-neutral to keep application code independent of broker specifics.
type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

// OutboxRecord represents durable outbox state, including retry/error metadata.
type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	LastError    *string
	CreatedAt    time.Time
	PublishedAt  *time.Time
	LastErrorAt  *time.Time
}

// OutboxRepository stores events transactionally with the triggering write and
// hands them to the worker for best-effort, at-most-once-per-claim delivery.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, publishedAt time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken string, reason string, failedAt time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken string, reason string, deadAt time.Time) error
}

// EventPublisher delivers a claimed outbox record to its destination.
// The partition key preserves per-creator ordering on keyed transports.
type EventPublisher interface {
	Publish(ctx context.Context, eventType, partitionKey string, payload []byte) error
}

// NotificationPayload is the outbox payload for notify.* events. The worker
// renders it into an email; delivery failures are logged, never surfaced.
type NotificationPayload struct {
	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`
	ContentTitle   string `json:"content_title"`
	Kind           string `json:"kind"`
	ReviewNotes    string `json:"review_notes,omitempty"`
	VerificationID string `json:"verification_id,omitempty"`
}

// EmailSender delivers a rendered notification email, best effort.
type EmailSender interface {
	Send(ctx context.Context, msg NotificationPayload) error
}
