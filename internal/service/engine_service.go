package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"safetalk-hive-be/internal/pkg/logger"
	"safetalk-hive-be/internal/repository/memory"
	"safetalk-hive-be/pkg/detector"
	"safetalk-hive-be/pkg/events"
	"safetalk-hive-be/pkg/intel"
	"safetalk-hive-be/pkg/persona"
	"safetalk-hive-be/pkg/store"
	"safetalk-hive-be/pkg/transport"
)

// IEngineService is the per-chat honeypot state machine. A chat is either
// Dormant (no session) or Engaged (session exists, Active=true); the only
// way back to Dormant is an explicit reset that deletes the session.
type IEngineService interface {
	HandleInboundText(ctx context.Context, chatID, text string) error
}

type engineService struct {
	sessions     *memory.SessionStore
	toggle       *store.Toggle
	detector     detector.Detector
	persona      persona.Responder
	aggregator   *intel.Aggregator
	transport    transport.Sender
	alerts       events.AlertPublisher
	fingerprints IFingerprintService // nil when no fingerprint DB is configured
	logger       logger.ILogger
}

func NewEngineService(
	sessions *memory.SessionStore,
	toggle *store.Toggle,
	det detector.Detector,
	responder persona.Responder,
	aggregator *intel.Aggregator,
	sender transport.Sender,
	alerts events.AlertPublisher,
	fingerprints IFingerprintService,
	log logger.ILogger,
) IEngineService {
	return &engineService{
		sessions:     sessions,
		toggle:       toggle,
		detector:     det,
		persona:      responder,
		aggregator:   aggregator,
		transport:    sender,
		alerts:       alerts,
		fingerprints: fingerprints,
		logger:       log,
	}
}

// HandleInboundText routes one scammer-side message through the state
// machine. Callers must serialize invocations per chat id; distinct chats
// may run concurrently.
func (s *engineService) HandleInboundText(ctx context.Context, chatID, text string) error {
	// Engaged chats skip classification entirely.
	if session, ok := s.sessions.Get(chatID); ok && session.Active {
		return s.continueEngagement(ctx, session, text)
	}

	verdict, err := s.detector.Classify(ctx, text)
	if err != nil {
		s.logger.Error("Engine", "Classification failed", map[string]interface{}{
			"chat_id": chatID, "error": err.Error(),
		})
		return fmt.Errorf("classify: %w", err)
	}

	if !verdict.IsScam {
		s.logger.Info("Engine", "Message appears legitimate", map[string]interface{}{
			"chat_id": chatID, "risk": verdict.Risk,
		})
		return nil
	}

	if !s.toggle.Enabled() {
		// Scam detected but auto-engage is off: warn the originating chat
		// itself, start nothing.
		alert := fmt.Sprintf("[SCAM ALERT]\nMessage: %q\nRisk: %s\nConfidence: %.2f\nReason: %s",
			text, verdict.Risk, verdict.Confidence, verdict.Reason)
		if err := s.transport.Send(ctx, chatID, alert); err != nil {
			s.logger.Error("Engine", "Scam alert send failed", map[string]interface{}{
				"chat_id": chatID, "error": err.Error(),
			})
		}
		return nil
	}

	scamType := detector.GuessScamType(text)
	session, err := s.sessions.Create(chatID, scamType)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	s.logger.Info("Engine", "Scam detected, honeypot engaged", map[string]interface{}{
		"chat_id": chatID, "scam_type": scamType, "risk": verdict.Risk,
	})

	// Operator alert goes out before the first reply is generated or sent.
	s.publishAlert(ctx, events.OperatorAlert{
		ChatID: chatID,
		Kind:   events.AlertKindDetection,
		Message: fmt.Sprintf("[SCAM DETECTED]\nFrom: %s\nMessage: %q\nRisk: %s\nConfidence: %.2f\nAction: Honeypot engaged (%s)",
			chatID, text, verdict.Risk, verdict.Confidence, scamType),
		OccurredAt: time.Now(),
	})

	// Escalation and the first honeypot reply happen in the same call: the
	// triggering message doubles as the first scammer turn.
	return s.continueEngagement(ctx, session, text)
}

// continueEngagement runs one engagement turn as an ordered pipeline. A
// failing stage aborts the rest but never reverts earlier stages: the
// scammer turn stays appended and the session stays Engaged, possibly with
// an unanswered turn dangling.
func (s *engineService) continueEngagement(ctx context.Context, session *store.Session, scammerText string) error {
	// Stage 1: record the scammer turn.
	session.AppendTurn(store.Turn{Sender: store.SenderScammer, Text: scammerText})

	// Stage 2: generate the persona reply from the full ordered history.
	reply, err := s.persona.Reply(ctx, scammerText, session.ScamType, session.History)
	if err != nil {
		s.logger.Error("Engine", "Persona reply failed", map[string]interface{}{
			"chat_id": session.ChatID, "error": err.Error(),
		})
		return fmt.Errorf("reply stage: %w", err)
	}

	// Stage 3: record the persona turn.
	session.AppendTurn(store.Turn{Sender: store.SenderVictim, Text: reply.Reply})

	s.logger.Info("Engine", "Honeypot reply generated", map[string]interface{}{
		"chat_id": session.ChatID, "persona": reply.PersonaName, "turns": len(session.History),
	})

	// Stage 4: send the reply. A send failure is logged and the turn
	// continues; delivery is the transport's problem.
	if err := s.transport.Send(ctx, session.ChatID, reply.Reply); err != nil {
		s.logger.Error("Engine", "Reply send failed", map[string]interface{}{
			"chat_id": session.ChatID, "error": err.Error(),
		})
	}

	// Stage 5: re-derive intel from the complete history, including the
	// reply just recorded. The fresh record replaces the previous one.
	record, err := s.aggregator.Aggregate(ctx, session.History)
	if err != nil {
		s.logger.Error("Engine", "Intel extraction failed", map[string]interface{}{
			"chat_id": session.ChatID, "error": err.Error(),
		})
		return fmt.Errorf("extract stage: %w", err)
	}
	session.SetIntel(record)

	// Stage 6: alert the operator when the conversation has yielded
	// anything, and fingerprint the profile.
	if intel.HasNewSignal(record) {
		s.publishAlert(ctx, events.OperatorAlert{
			ChatID:     session.ChatID,
			Kind:       events.AlertKindIntel,
			Message:    formatIntelAlert(session.ChatID, record),
			OccurredAt: time.Now(),
		})

		if s.fingerprints != nil {
			if err := s.fingerprints.Record(ctx, session.ChatID, session.ScamType, len(session.History), record); err != nil {
				s.logger.Error("Engine", "Fingerprint record failed", map[string]interface{}{
					"chat_id": session.ChatID, "error": err.Error(),
				})
			}
		}
	}

	return nil
}

// publishAlert is fire-and-forget: a dead alert bus must not break the turn.
func (s *engineService) publishAlert(ctx context.Context, alert events.OperatorAlert) {
	if err := s.alerts.PublishAlert(ctx, alert); err != nil {
		s.logger.Error("Engine", "Alert publish failed", map[string]interface{}{
			"chat_id": alert.ChatID, "kind": alert.Kind, "error": err.Error(),
		})
	}
}

func formatIntelAlert(chatID string, record *store.IntelRecord) string {
	return fmt.Sprintf("[Intel Update - %s]\nUPI: %s\nPhones: %s\nLinks: %s\nKeywords: %s",
		chatID,
		joinOrDash(record.UPIIDs),
		joinOrDash(record.PhoneNumbers),
		joinOrDash(record.PhishingLinks),
		joinOrDash(record.SuspiciousKeywords))
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}
