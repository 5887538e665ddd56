package natsbridge

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"safetalk-hive-be/pkg/transport"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
)

type fakeJetstreamMsg struct {
	data []byte
	acks int
	naks int
}

var _ jetstream.Msg = &fakeJetstreamMsg{}

func (m *fakeJetstreamMsg) Data() []byte                          { return m.data }
func (m *fakeJetstreamMsg) Ack() error                            { m.acks++; return nil }
func (m *fakeJetstreamMsg) DoubleAck(context.Context) error       { m.acks++; return nil }
func (m *fakeJetstreamMsg) Nak() error                            { m.naks++; return nil }
func (m *fakeJetstreamMsg) NakWithDelay(time.Duration) error      { m.naks++; return nil }
func (m *fakeJetstreamMsg) Metadata() (*jetstream.MsgMetadata, error) { return nil, nil }
func (m *fakeJetstreamMsg) Headers() nats.Header                  { return nil }
func (m *fakeJetstreamMsg) Subject() string                       { return subjectInbound }
func (m *fakeJetstreamMsg) Reply() string                         { return "" }
func (m *fakeJetstreamMsg) InProgress() error                     { return nil }
func (m *fakeJetstreamMsg) Term() error                           { return nil }
func (m *fakeJetstreamMsg) TermWithReason(string) error           { return nil }

func inboundPayload(t *testing.T, msg transport.InboundMessage) []byte {
	t.Helper()
	data, err := json.Marshal(msg)
	assert.NoError(t, err)
	return data
}

func TestHandleInbound_DeliversDecodedMessage(t *testing.T) {
	msg := &fakeJetstreamMsg{data: inboundPayload(t, transport.InboundMessage{
		ChatID: "chat-1", Body: "pay to 1@upi",
	})}

	var got *transport.InboundMessage
	handleInbound(msg, func(ctx context.Context, inbound *transport.InboundMessage) error {
		got = inbound
		return nil
	})

	assert.NotNil(t, got)
	assert.Equal(t, "chat-1", got.ChatID)
	assert.Equal(t, "pay to 1@upi", got.Body)
	assert.Equal(t, 1, msg.acks)
	assert.Zero(t, msg.naks)
}

// A failed turn must be acked, not nak'd: redelivery would re-run the turn
// and append the triggering scammer message to the history a second time.
func TestHandleInbound_HandlerErrorAcksWithoutRedelivery(t *testing.T) {
	msg := &fakeJetstreamMsg{data: inboundPayload(t, transport.InboundMessage{
		ChatID: "chat-1", Body: "pay to 1@upi",
	})}

	calls := 0
	handleInbound(msg, func(ctx context.Context, inbound *transport.InboundMessage) error {
		calls++
		return errors.New("persona down")
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, msg.acks)
	assert.Zero(t, msg.naks, "handler failure must not request redelivery")
}

func TestHandleInbound_BadPayloadAckedWithoutDispatch(t *testing.T) {
	msg := &fakeJetstreamMsg{data: []byte("not json")}

	handleInbound(msg, func(ctx context.Context, inbound *transport.InboundMessage) error {
		t.Fatal("handler must not run for undecodable payloads")
		return nil
	})

	assert.Equal(t, 1, msg.acks)
	assert.Zero(t, msg.naks)
}
