package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"safetalk-hive-be/internal/config"
	"safetalk-hive-be/internal/pkg/logger"
	"safetalk-hive-be/internal/repository/memory"
	"safetalk-hive-be/internal/service"
	"safetalk-hive-be/pkg/detector"
	"safetalk-hive-be/pkg/events"
	"safetalk-hive-be/pkg/intel"
	"safetalk-hive-be/pkg/persona"
	"safetalk-hive-be/pkg/store"
	"safetalk-hive-be/pkg/transcribe"
	"safetalk-hive-be/pkg/transport"

	"github.com/fatih/color"
)

// Interactive console for exercising the engine against a running SafeTalk
// API, without WhatsApp or NATS in the loop. Every line typed is dispatched
// as a scammer-side message in a single simulated chat.

const simulatedChatID = "sim-console@c.us"

// consoleSender prints outbound messages instead of hitting the bridge.
type consoleSender struct {
	out *color.Color
}

func (s *consoleSender) Send(ctx context.Context, chatID, text string) error {
	s.out.Printf("\n[-> %s]\n%s\n\n", chatID, text)
	return nil
}

// consoleAlerts prints operator alerts inline.
type consoleAlerts struct {
	out *color.Color
}

func (a *consoleAlerts) PublishAlert(ctx context.Context, alert events.OperatorAlert) error {
	a.out.Printf("\n*** OPERATOR ALERT (%s) ***\n%s\n\n", alert.Kind, alert.Message)
	return nil
}

func main() {
	cfg := config.Load()
	sysLogger := logger.NewZapLogger("logs/simulate.log", false)

	sender := &consoleSender{out: color.New(color.FgCyan)}
	alerts := &consoleAlerts{out: color.New(color.FgRed, color.Bold)}

	sessions := memory.NewSessionStore()
	toggle := store.NewToggle(cfg.Honeypot.EnabledByDefault)

	engine := service.NewEngineService(
		sessions,
		toggle,
		detector.NewClient(cfg.Services.APIBaseURL),
		persona.NewClient(cfg.Services.APIBaseURL),
		intel.NewAggregator(intel.NewClient(cfg.Services.APIBaseURL)),
		sender,
		alerts,
		nil, // no fingerprint DB in the console
		sysLogger,
	)
	commands := service.NewCommandService(sessions, toggle, sender, sysLogger)
	dispatcher := service.NewDispatcherService(commands, engine, transcribe.NewClient(cfg.Services.TranscriberBaseURL), sysLogger)

	banner := color.New(color.FgGreen, color.Bold)
	banner.Println("=== SafeTalk H.I.V.E. Console Simulator ===")
	fmt.Printf("API: %s | Chat: %s | Honeypot: %v\n", cfg.Services.APIBaseURL, simulatedChatID, toggle.Enabled())
	fmt.Println("Type scammer messages, ! commands, or 'exit'.")

	scanner := bufio.NewScanner(os.Stdin)
	prompt := color.New(color.FgYellow)
	for {
		prompt.Print("scammer> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		err := dispatcher.Dispatch(context.Background(), &transport.InboundMessage{
			ChatID: simulatedChatID,
			Body:   line,
		})
		if err != nil {
			color.Red("Error: %v", err)
		}
	}

	if err := scanner.Err(); err != nil {
		log.Fatalf("stdin error: %v", err)
	}
}
