package bootstrap

import (
	"context"
	"log"

	"safetalk-hive-be/internal/config"
	"safetalk-hive-be/internal/controller"
	"safetalk-hive-be/internal/handler"
	"safetalk-hive-be/internal/model"
	"safetalk-hive-be/internal/pkg/logger"
	"safetalk-hive-be/internal/pkg/mailer"
	"safetalk-hive-be/internal/repository/implementation"
	"safetalk-hive-be/internal/repository/memory"
	"safetalk-hive-be/internal/service"
	"safetalk-hive-be/internal/websocket"
	"safetalk-hive-be/pkg/database"
	"safetalk-hive-be/pkg/detector"
	"safetalk-hive-be/pkg/events"
	"safetalk-hive-be/pkg/intel"
	"safetalk-hive-be/pkg/natsbridge"
	"safetalk-hive-be/pkg/persona"
	"safetalk-hive-be/pkg/store"
	"safetalk-hive-be/pkg/transcribe"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

type Container struct {
	// Controllers
	AdminController       controller.IAdminController
	FingerprintController controller.IFingerprintController // nil without a fingerprint DB

	// Message-plane entry point (Exposed for main.go to wire to NATS)
	Dispatcher IDispatcherRunner

	// Background Services (Exposed for main.go to run)
	AlertHandler IAlertRunner

	// WebSockets
	WebSocketHub *websocket.Hub
}

// Narrow views of the services main.go needs to start; keeps main decoupled
// from the service package.
type IDispatcherRunner = service.IDispatcherService
type IAlertRunner = handler.IAlertHandler

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	alertPublisher := events.NewWatermillAlertPublisher(pubSub)

	// 2.5 Infrastructure
	// NATS transport to/from the WhatsApp bridge
	natsPub, err := natsbridge.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect NATS publisher: %v", err)
	}

	// Redis (optional, cross-instance dashboard fan-out)
	var rdb *redis.Client
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.App.RedisURL}
		}
		rdb = redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
	}

	// WebSocket Hub
	wsHub := websocket.NewHub(rdb, sysLogger)
	go wsHub.Run()

	// 3. Domain state
	sessionStore := memory.NewSessionStore()
	toggle := store.NewToggle(cfg.Honeypot.EnabledByDefault)

	// AI sidecar clients
	detectorClient := detector.NewClient(cfg.Services.APIBaseURL)
	personaClient := persona.NewClient(cfg.Services.APIBaseURL)
	intelAggregator := intel.NewAggregator(intel.NewClient(cfg.Services.APIBaseURL))
	transcriberClient := transcribe.NewClient(cfg.Services.TranscriberBaseURL)

	// 3.5 Fingerprint DB (optional; the engine runs fine without it)
	var fingerprintService service.IFingerprintService
	var fingerprintController controller.IFingerprintController
	if cfg.Database.Connection != "" {
		gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			log.Fatalf("[FATAL] Unable to connect to GORM DB: %v", err)
		}
		if err := gormDB.AutoMigrate(&model.Scammer{}, &model.ScammerIdentifier{}, &model.ScammerSession{}); err != nil {
			log.Fatalf("[FATAL] Fingerprint migration failed: %v", err)
		}

		fingerprintRepo := implementation.NewFingerprintRepository(gormDB)
		fingerprintService = service.NewFingerprintService(fingerprintRepo, sysLogger)
		fingerprintController = controller.NewFingerprintController(fingerprintService)
		log.Println("[INFO] Fingerprint database enabled")
	} else {
		log.Println("[INFO] No DB_CONNECTION_STRING, fingerprinting disabled")
	}

	// 4. Services
	engineService := service.NewEngineService(
		sessionStore,
		toggle,
		detectorClient,
		personaClient,
		intelAggregator,
		natsPub,
		alertPublisher,
		fingerprintService,
		sysLogger,
	)
	commandService := service.NewCommandService(sessionStore, toggle, natsPub, sysLogger)
	dispatcherService := service.NewDispatcherService(commandService, engineService, transcriberClient, sysLogger)

	alertHandler := handler.NewAlertHandler(pubSub, natsPub, wsHub, emailService, &cfg.Honeypot, sysLogger)

	return &Container{
		AdminController:       controller.NewAdminController(sessionStore, toggle, natsPub),
		FingerprintController: fingerprintController,
		Dispatcher:            dispatcherService,
		AlertHandler:          alertHandler,
		WebSocketHub:          wsHub,
	}
}
