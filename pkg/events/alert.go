package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// TopicOperatorAlerts carries every operator-facing alert the engine emits.
const TopicOperatorAlerts = "alerts.operator"

// Alert kinds.
const (
	AlertKindDetection = "detection"
	AlertKindIntel     = "intel"
)

// OperatorAlert is an operator-facing notification: a new scam detection or
// an intelligence update for an engaged chat.
type OperatorAlert struct {
	ChatID     string    `json:"chat_id"`
	Kind       string    `json:"kind"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AlertPublisher is what the engine emits alerts through. Publishing is
// synchronous from the caller's perspective, so emission order is the call
// order; delivery to consumers is not.
type AlertPublisher interface {
	PublishAlert(ctx context.Context, alert OperatorAlert) error
}

// WatermillAlertPublisher publishes alerts onto the in-process watermill bus.
type WatermillAlertPublisher struct {
	publisher message.Publisher
}

var _ AlertPublisher = &WatermillAlertPublisher{}

func NewWatermillAlertPublisher(publisher message.Publisher) *WatermillAlertPublisher {
	return &WatermillAlertPublisher{publisher: publisher}
}

func (p *WatermillAlertPublisher) PublishAlert(ctx context.Context, alert OperatorAlert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), data)
	msg.SetContext(ctx)

	if err := p.publisher.Publish(TopicOperatorAlerts, msg); err != nil {
		return fmt.Errorf("publish alert: %w", err)
	}
	return nil
}
