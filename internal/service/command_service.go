package service

import (
	"context"
	"fmt"
	"strings"

	"safetalk-hive-be/internal/pkg/logger"
	"safetalk-hive-be/internal/repository/memory"
	"safetalk-hive-be/pkg/store"
	"safetalk-hive-be/pkg/transport"
)

// Control directives use a fixed leading marker in the chat itself.
const commandPrefix = "!"

// ICommandService interprets operator control directives issued in-channel.
type ICommandService interface {
	IsCommand(body string) bool
	Handle(ctx context.Context, chatID, body string) error
}

type commandService struct {
	sessions  *memory.SessionStore
	toggle    *store.Toggle
	transport transport.Sender
	logger    logger.ILogger
}

func NewCommandService(
	sessions *memory.SessionStore,
	toggle *store.Toggle,
	sender transport.Sender,
	log logger.ILogger,
) ICommandService {
	return &commandService{
		sessions:  sessions,
		toggle:    toggle,
		transport: sender,
		logger:    log,
	}
}

func (s *commandService) IsCommand(body string) bool {
	return strings.HasPrefix(body, commandPrefix)
}

// Handle executes one directive. All directives are idempotent; an
// unrecognized directive is silently ignored.
func (s *commandService) Handle(ctx context.Context, chatID, body string) error {
	cmd := strings.TrimSpace(strings.ToLower(body))

	switch cmd {
	case "!status":
		return s.reply(ctx, chatID, fmt.Sprintf(
			"[SafeTalk-AI] Status: Online\nHoneypot: %s\nActive sessions: %d",
			onOff(s.toggle.Enabled()), s.sessions.Count()))

	case "!honeypot on":
		s.toggle.Enable()
		return s.reply(ctx, chatID, "[SafeTalk-AI] Honeypot auto-engage: ON")

	case "!honeypot off":
		s.toggle.Disable()
		return s.reply(ctx, chatID, "[SafeTalk-AI] Honeypot auto-engage: OFF")

	case "!intel":
		return s.reportIntel(ctx, chatID)

	case "!reset":
		// No-op when the chat has no session.
		s.sessions.Delete(chatID)
		return s.reply(ctx, chatID, "[SafeTalk-AI] Honeypot session reset for this chat.")

	default:
		s.logger.Debug("Command", "Unrecognized directive ignored", map[string]interface{}{
			"chat_id": chatID, "body": body,
		})
		return nil
	}
}

func (s *commandService) reportIntel(ctx context.Context, chatID string) error {
	session, ok := s.sessions.Get(chatID)
	if !ok || session.Intel == nil {
		return s.reply(ctx, chatID, "[SafeTalk-AI] No intelligence collected for this chat yet.")
	}

	i := session.Intel
	report := fmt.Sprintf(
		"[Intelligence Report]\nUPI IDs: %s\nPhone Numbers: %s\nLinks: %s\nKeywords: %s\nMessages tracked: %d",
		joinOrNone(i.UPIIDs),
		joinOrNone(i.PhoneNumbers),
		joinOrNone(i.PhishingLinks),
		joinOrNone(i.SuspiciousKeywords),
		len(session.History))
	return s.reply(ctx, chatID, report)
}

func (s *commandService) reply(ctx context.Context, chatID, text string) error {
	if err := s.transport.Send(ctx, chatID, text); err != nil {
		s.logger.Error("Command", "Reply send failed", map[string]interface{}{
			"chat_id": chatID, "error": err.Error(),
		})
		return fmt.Errorf("send command reply: %w", err)
	}
	return nil
}

func onOff(enabled bool) string {
	if enabled {
		return "ON"
	}
	return "OFF"
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
