package service

import (
	"context"
	"errors"
	"testing"

	"safetalk-hive-be/internal/repository/memory"
	"safetalk-hive-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

type commandFixture struct {
	sessions *memory.SessionStore
	toggle   *store.Toggle
	sender   *fakeSender
	commands ICommandService
}

func newCommandFixture() *commandFixture {
	f := &commandFixture{
		sessions: memory.NewSessionStore(),
		toggle:   store.NewToggle(true),
		sender:   &fakeSender{},
	}
	f.commands = NewCommandService(f.sessions, f.toggle, f.sender, nopLogger{})
	return f
}

func TestCommand_IsCommand(t *testing.T) {
	f := newCommandFixture()

	assert.True(t, f.commands.IsCommand("!status"))
	assert.True(t, f.commands.IsCommand("!whatever"))
	assert.False(t, f.commands.IsCommand("status"))
	assert.False(t, f.commands.IsCommand("hello!"))
}

func TestCommand_Status(t *testing.T) {
	f := newCommandFixture()
	_, _ = f.sessions.Create("other-chat", store.ScamTypeDefault)

	err := f.commands.Handle(context.Background(), "op-chat", "!status")

	assert.NoError(t, err)
	last, ok := f.sender.lastTo("op-chat")
	assert.True(t, ok)
	assert.Contains(t, last.Text, "Status: Online")
	assert.Contains(t, last.Text, "Honeypot: ON")
	assert.Contains(t, last.Text, "Active sessions: 1")
}

func TestCommand_HoneypotToggle(t *testing.T) {
	f := newCommandFixture()

	assert.NoError(t, f.commands.Handle(context.Background(), "op-chat", "!honeypot off"))
	assert.False(t, f.toggle.Enabled())
	last, _ := f.sender.lastTo("op-chat")
	assert.Contains(t, last.Text, "OFF")

	assert.NoError(t, f.commands.Handle(context.Background(), "op-chat", "!honeypot on"))
	assert.True(t, f.toggle.Enabled())
	last, _ = f.sender.lastTo("op-chat")
	assert.Contains(t, last.Text, "ON")
}

func TestCommand_ToggleIsIdempotent(t *testing.T) {
	f := newCommandFixture()

	assert.NoError(t, f.commands.Handle(context.Background(), "op-chat", "!honeypot on"))
	assert.NoError(t, f.commands.Handle(context.Background(), "op-chat", "!honeypot on"))
	assert.True(t, f.toggle.Enabled())
	assert.Len(t, f.sender.sent(), 2) // confirmation each time
}

func TestCommand_IntelWithoutSession(t *testing.T) {
	f := newCommandFixture()

	err := f.commands.Handle(context.Background(), "chat-1", "!intel")

	assert.NoError(t, err)
	last, _ := f.sender.lastTo("chat-1")
	assert.Contains(t, last.Text, "No intelligence collected")
}

func TestCommand_IntelReport(t *testing.T) {
	f := newCommandFixture()
	session, _ := f.sessions.Create("chat-1", store.ScamTypeUPIFraud)
	session.AppendTurn(store.Turn{Sender: store.SenderScammer, Text: "pay 1@upi"})
	session.AppendTurn(store.Turn{Sender: store.SenderVictim, Text: "how?"})
	session.SetIntel(&store.IntelRecord{
		UPIIDs:             []string{"1@upi"},
		PhoneNumbers:       []string{},
		PhishingLinks:      []string{},
		SuspiciousKeywords: []string{"urgent", "otp"},
	})

	err := f.commands.Handle(context.Background(), "chat-1", "!intel")

	assert.NoError(t, err)
	last, _ := f.sender.lastTo("chat-1")
	assert.Contains(t, last.Text, "[Intelligence Report]")
	assert.Contains(t, last.Text, "UPI IDs: 1@upi")
	assert.Contains(t, last.Text, "Phone Numbers: none")
	assert.Contains(t, last.Text, "Keywords: urgent, otp")
	assert.Contains(t, last.Text, "Messages tracked: 2")
}

func TestCommand_Reset(t *testing.T) {
	f := newCommandFixture()
	_, _ = f.sessions.Create("chat-1", store.ScamTypeDefault)

	err := f.commands.Handle(context.Background(), "chat-1", "!reset")

	assert.NoError(t, err)
	_, ok := f.sessions.Get("chat-1")
	assert.False(t, ok)
	last, _ := f.sender.lastTo("chat-1")
	assert.Contains(t, last.Text, "session reset")
}

func TestCommand_ResetWithoutSessionStillConfirms(t *testing.T) {
	f := newCommandFixture()

	err := f.commands.Handle(context.Background(), "chat-1", "!reset")

	assert.NoError(t, err)
	assert.Len(t, f.sender.sent(), 1)
}

func TestCommand_UnknownDirectiveIgnored(t *testing.T) {
	f := newCommandFixture()

	err := f.commands.Handle(context.Background(), "chat-1", "!bogus")

	assert.NoError(t, err)
	assert.Empty(t, f.sender.sent())
}

func TestCommand_CaseAndWhitespaceInsensitive(t *testing.T) {
	f := newCommandFixture()

	err := f.commands.Handle(context.Background(), "chat-1", "  !STATUS  ")

	assert.NoError(t, err)
	assert.Len(t, f.sender.sent(), 1)
}

func TestCommand_SendFailurePropagates(t *testing.T) {
	f := newCommandFixture()
	f.sender.err = errors.New("bridge down")

	err := f.commands.Handle(context.Background(), "chat-1", "!status")

	assert.Error(t, err)
}
