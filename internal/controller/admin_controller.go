package controller

import (
	"time"

	"safetalk-hive-be/internal/dto"
	"safetalk-hive-be/internal/pkg/serverutils"
	"safetalk-hive-be/internal/repository/memory"
	"safetalk-hive-be/pkg/store"
	"safetalk-hive-be/pkg/transport"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	SendAlert(ctx *fiber.Ctx) error
	GetSessions(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type adminController struct {
	sessions  *memory.SessionStore
	toggle    *store.Toggle
	transport transport.Sender
}

func NewAdminController(sessions *memory.SessionStore, toggle *store.Toggle, sender transport.Sender) IAdminController {
	return &adminController{
		sessions:  sessions,
		toggle:    toggle,
		transport: sender,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	r.Post("/alert", c.SendAlert)
	r.Get("/sessions", c.GetSessions)
	r.Get("/health", c.Health)
}

// SendAlert pushes an arbitrary message to a chat through the transport.
// Used by external tooling to reach the operator or a victim directly.
func (c *adminController) SendAlert(ctx *fiber.Ctx) error {
	var req dto.SendAlertRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.transport.Send(ctx.Context(), req.Number, req.Message); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send alert", dto.SendAlertResponse{Status: "Alert sent."}))
}

// GetSessions returns a point-in-time view of every honeypot session.
func (c *adminController) GetSessions(ctx *fiber.Ctx) error {
	now := time.Now()

	snapshots := make(map[string]dto.SessionSnapshot)
	for chatID, session := range c.sessions.List() {
		// History and Intel may be mid-turn on another goroutine.
		turns, intel := session.Snapshot()
		snapshots[chatID] = dto.SessionSnapshot{
			Active:          session.Active,
			ScamType:        session.ScamType,
			Turns:           turns,
			Intel:           intel,
			DurationSeconds: int64(now.Sub(session.StartTime).Seconds()),
		}
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sessions", snapshots))
}

func (c *adminController) Health(ctx *fiber.Ctx) error {
	honeypot := "off"
	if c.toggle.Enabled() {
		honeypot = "on"
	}

	return ctx.JSON(serverutils.SuccessResponse("Success health check", dto.HealthResponse{
		Status:  "ok",
		Service: "safetalk-hive-backend",
		Features: map[string]string{
			"honeypot": honeypot,
		},
	}))
}
