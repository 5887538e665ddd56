package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"safetalk-hive-be/internal/pkg/logger"
	"safetalk-hive-be/pkg/transcribe"
	"safetalk-hive-be/pkg/transport"
)

// IDispatcherService is the single entry point for inbound messages. It
// serializes processing per chat id (different chats run fully concurrently)
// and routes each unit to the command router, the transcription pipeline, or
// the engine.
type IDispatcherService interface {
	Dispatch(ctx context.Context, msg *transport.InboundMessage) error
}

type dispatcherService struct {
	commands    ICommandService
	engine      IEngineService
	transcriber transcribe.Transcriber
	logger      logger.ILogger

	// chat id -> *sync.Mutex
	chatLocks sync.Map
}

func NewDispatcherService(
	commands ICommandService,
	engine IEngineService,
	transcriber transcribe.Transcriber,
	log logger.ILogger,
) IDispatcherService {
	return &dispatcherService{
		commands:    commands,
		engine:      engine,
		transcriber: transcriber,
		logger:      log,
	}
}

func (s *dispatcherService) Dispatch(ctx context.Context, msg *transport.InboundMessage) error {
	if msg.FromMe {
		return nil
	}

	mu := s.lockFor(msg.ChatID)
	mu.Lock()
	defer mu.Unlock()

	if s.commands.IsCommand(msg.Body) {
		return s.commands.Handle(ctx, msg.ChatID, msg.Body)
	}

	if msg.MediaKind != "" {
		// Only voice media enters the pipeline; everything else is dropped.
		if !strings.HasPrefix(msg.MediaKind, "audio") {
			return nil
		}
		text, err := s.transcriber.Transcribe(ctx, msg.MediaPath)
		if err != nil {
			s.logger.Error("Dispatcher", "Transcription failed", map[string]interface{}{
				"chat_id": msg.ChatID, "media_path": msg.MediaPath, "error": err.Error(),
			})
			return fmt.Errorf("transcribe: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			return nil
		}
		s.logger.Info("Dispatcher", "Voice message transcribed", map[string]interface{}{
			"chat_id": msg.ChatID, "length": len(text),
		})
		return s.engine.HandleInboundText(ctx, msg.ChatID, text)
	}

	if msg.Body == "" {
		return nil
	}

	return s.engine.HandleInboundText(ctx, msg.ChatID, msg.Body)
}

func (s *dispatcherService) lockFor(chatID string) *sync.Mutex {
	mu, _ := s.chatLocks.LoadOrStore(chatID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
