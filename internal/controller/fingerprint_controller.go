package controller

import (
	"safetalk-hive-be/internal/dto"
	"safetalk-hive-be/internal/pkg/serverutils"
	"safetalk-hive-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFingerprintController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Lookup(ctx *fiber.Ctx) error
	Stats(ctx *fiber.Ctx) error
	UpdateStatus(ctx *fiber.Ctx) error
}

type fingerprintController struct {
	service service.IFingerprintService
}

func NewFingerprintController(service service.IFingerprintService) IFingerprintController {
	return &fingerprintController{service: service}
}

func (c *fingerprintController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/fingerprint")
	h.Get("/all", c.GetAll)
	h.Get("/lookup/:identifier", c.Lookup)
	h.Get("/stats", c.Stats)
	h.Post("/status", c.UpdateStatus)
}

func (c *fingerprintController) GetAll(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 50)

	res, err := c.service.ListAll(ctx.Context(), limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get scammer profiles", res))
}

func (c *fingerprintController) Lookup(ctx *fiber.Ctx) error {
	identifier := ctx.Params("identifier")
	if identifier == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing identifier")
	}

	res, err := c.service.Lookup(ctx.Context(), identifier)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success lookup identifier", res))
}

func (c *fingerprintController) Stats(ctx *fiber.Ctx) error {
	res, err := c.service.Stats(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get fingerprint stats", res))
}

func (c *fingerprintController) UpdateStatus(ctx *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	updated, err := c.service.UpdateStatus(ctx.Context(), &req)
	if err != nil {
		return err
	}
	if !updated {
		return fiber.NewError(fiber.StatusNotFound, "Unknown fingerprint")
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update status", fiber.Map{"updated": true}))
}
