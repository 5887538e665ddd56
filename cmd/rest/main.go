package main

import (
	"context"
	"log"

	"safetalk-hive-be/internal/bootstrap"
	"safetalk-hive-be/internal/config"
	"safetalk-hive-be/internal/server"
	"safetalk-hive-be/internal/tracer"
	"safetalk-hive-be/pkg/natsbridge"
	"safetalk-hive-be/pkg/transport"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(cfg)

	// 3. Start Background Services
	go func() {
		log.Println("Background: Starting Alert Handler...")
		if err := container.AlertHandler.Consume(context.Background()); err != nil {
			log.Printf("Background Alert Handler Error: %v", err)
		}
	}()

	// 4. Wire the inbound message stream into the dispatcher
	natsSub, err := natsbridge.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("Unable to connect NATS subscriber: %v", err)
	}
	defer natsSub.Close()

	err = natsSub.Subscribe("hive-engine", func(ctx context.Context, msg *transport.InboundMessage) error {
		return container.Dispatcher.Dispatch(ctx, msg)
	})
	if err != nil {
		log.Fatalf("Unable to subscribe to inbound messages: %v", err)
	}

	// 5. Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
