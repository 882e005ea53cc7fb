package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/viralforge/mesh/services/trust-compliance/M47-content-certification-service/internal/ports"
)

// Dispatcher routes claimed outbox records by event type: notify.* payloads
// are rendered and sent as email, everything else flows to the event fanout
// (kafka in production, logging when no brokers are configured).
type Dispatcher struct {
	fanout ports.EventPublisher
	email  ports.EmailSender
}

func NewDispatcher(fanout ports.EventPublisher, email ports.EmailSender) *Dispatcher {
	return &Dispatcher{fanout: fanout, email: email}
}

func (d *Dispatcher) Publish(ctx context.Context, eventType, partitionKey string, payload []byte) error {
	if strings.HasPrefix(eventType, "notify.") {
		if d.email == nil {
			return nil
		}
		var msg ports.NotificationPayload
		if err := json.Unmarshal(payload, &msg); err != nil {
			return fmt.Errorf("decode notification payload: %w", err)
		}
		return d.email.Send(ctx, msg)
	}
	return d.fanout.Publish(ctx, eventType, partitionKey, payload)
}
