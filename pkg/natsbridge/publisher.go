package natsbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"safetalk-hive-be/pkg/transport"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// Stream configuration shared with the WhatsApp bridge process. The bridge
// publishes inbound chat events on wa.inbound and consumes outbound sends
// from wa.outbound.>.
const (
	streamName      = "WHATSAPP"
	subjectInbound  = "wa.inbound"
	subjectOutbound = "wa.outbound"
)

// Publisher sends outbound chat messages over the NATS bridge.
type Publisher struct {
	nc *nats.Conn
	js jetstream.JetStream
}

// Ensure Publisher implements the transport contract
var _ transport.Sender = &Publisher{}

func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"wa.>"},
		Storage:  jetstream.FileStorage,
	})
	if err != nil {
		// The bridge may have created it already, or NATS isn't up yet.
		log.Printf("Warn: Failed to ensure stream %q: %v", streamName, err)
	}

	return &Publisher{nc: nc, js: js}, nil
}

type outboundMessage struct {
	Number  string `json:"number"`
	Message string `json:"message"`
}

// Send publishes an outbound chat message. Delivery to WhatsApp is the
// bridge's problem; a successful publish is all this layer promises.
func (p *Publisher) Send(ctx context.Context, chatID, text string) error {
	data, err := json.Marshal(outboundMessage{Number: chatID, Message: text})
	if err != nil {
		return fmt.Errorf("marshal outbound message: %w", err)
	}

	subject := subjectOutbound + "." + subjectToken(chatID)
	if _, err := p.js.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	return nil
}

func (p *Publisher) Close() {
	if p.nc != nil {
		p.nc.Close()
	}
}

// subjectToken makes a chat id safe to use as a NATS subject token
// (ids like "919812345678@c.us" contain '.' and '@').
func subjectToken(chatID string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, chatID)
}
