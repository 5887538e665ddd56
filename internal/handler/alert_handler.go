package handler

import (
	"context"
	"encoding/json"
	"log"

	"safetalk-hive-be/internal/config"
	"safetalk-hive-be/internal/pkg/logger"
	"safetalk-hive-be/internal/pkg/mailer"
	"safetalk-hive-be/internal/websocket"
	"safetalk-hive-be/pkg/events"
	"safetalk-hive-be/pkg/transport"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IAlertHandler drains the operator alert topic and fans each alert out to
// the configured channels: the operator's own chat, the dashboard websocket
// hub, and optionally e-mail.
type IAlertHandler interface {
	Consume(ctx context.Context) error
}

type alertHandler struct {
	pubSub    *gochannel.GoChannel
	transport transport.Sender
	hub       *websocket.Hub
	mailer    mailer.IEmailService
	cfg       *config.HoneypotConfig
	logger    logger.ILogger
}

func NewAlertHandler(
	pubSub *gochannel.GoChannel,
	sender transport.Sender,
	hub *websocket.Hub,
	email mailer.IEmailService,
	cfg *config.HoneypotConfig,
	log logger.ILogger,
) IAlertHandler {
	return &alertHandler{
		pubSub:    pubSub,
		transport: sender,
		hub:       hub,
		mailer:    email,
		cfg:       cfg,
		logger:    log,
	}
}

func (h *alertHandler) Consume(ctx context.Context) error {
	messages, err := h.pubSub.Subscribe(ctx, events.TopicOperatorAlerts)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			h.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (h *alertHandler) processMessage(ctx context.Context, msg *message.Message) {
	var alert events.OperatorAlert
	if err := json.Unmarshal(msg.Payload, &alert); err != nil {
		log.Printf("[ERROR] Failed to unmarshal alert: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	// Operator chat first: it is the primary alert channel.
	if h.cfg.OperatorChatID != "" {
		if err := h.transport.Send(ctx, h.cfg.OperatorChatID, alert.Message); err != nil {
			h.logger.Error("AlertHandler", "Operator chat delivery failed", map[string]interface{}{
				"chat_id": alert.ChatID, "kind": alert.Kind, "error": err.Error(),
			})
		}
	}

	if h.hub != nil {
		h.hub.Broadcast(alert)
	}

	if h.mailer != nil && h.cfg.AlertEmail != "" {
		subject := "SafeTalk H.I.V.E. alert: " + alert.Kind
		if err := h.mailer.SendAlert(h.cfg.AlertEmail, subject, alert.Message); err != nil {
			h.logger.Error("AlertHandler", "Alert e-mail failed", map[string]interface{}{
				"chat_id": alert.ChatID, "error": err.Error(),
			})
		}
	}

	msg.Ack()
}
