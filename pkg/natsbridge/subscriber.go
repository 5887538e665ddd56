package natsbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"safetalk-hive-be/pkg/transport"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// InboundHandler processes one inbound chat event.
type InboundHandler func(ctx context.Context, msg *transport.InboundMessage) error

// Subscriber consumes inbound chat events published by the WhatsApp bridge.
type Subscriber struct {
	nc *nats.Conn
	js jetstream.JetStream
}

func NewSubscriber(url string) (*Subscriber, error) {
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

	return &Subscriber{nc: nc, js: js}, nil
}

// Subscribe starts consuming inbound chat events with a durable consumer so
// messages survive engine restarts. Delivery is at-most-once: a message is
// never redelivered, because replaying one would append the same scammer
// turn to the session history a second time.
func (s *Subscriber) Subscribe(durableName string, handler InboundHandler) error {
	ctx := context.Background()

	consumer, err := s.js.CreateOrUpdateConsumer(ctx, streamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subjectInbound,
		AckPolicy:     jetstream.AckExplicitPolicy,
		// A turn can spend minutes inside LLM and whisper calls; the ack
		// window must not expire and replay the message mid-turn.
		AckWait:    5 * time.Minute,
		MaxDeliver: 1,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}

	_, err = consumer.Consume(func(msg jetstream.Msg) {
		handleInbound(msg, handler)
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	log.Printf("Subscribed to %s with durable %s", subjectInbound, durableName)
	return nil
}

// handleInbound decodes and dispatches one delivery. Every outcome acks:
// undecodable payloads would poison-pill the consumer, and a failed turn is
// dropped rather than retried since the engine keeps whatever partial state
// the turn left behind.
func handleInbound(msg jetstream.Msg, handler InboundHandler) {
	var inbound transport.InboundMessage
	if err := json.Unmarshal(msg.Data(), &inbound); err != nil {
		log.Printf("Error unmarshalling inbound event: %v", err)
		msg.Ack()
		return
	}

	if err := handler(context.Background(), &inbound); err != nil {
		log.Printf("Inbound handler failed for chat %s: %v", inbound.ChatID, err)
	}

	msg.Ack()
}

func (s *Subscriber) Close() {
	if s.nc != nil {
		s.nc.Close()
	}
}
