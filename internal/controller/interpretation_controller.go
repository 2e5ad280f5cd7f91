package controller

import (
	"dream-insight-be/internal/dto"
	"dream-insight-be/internal/pkg/serverutils"
	"dream-insight-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IInterpretationController interface {
	RegisterRoutes(r fiber.Router)
	Interpret(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ListByDream(ctx *fiber.Ctx) error
	ListPersonas(ctx *fiber.Ctx) error
}

type interpretationController struct {
	interpretationService service.IInterpretationService
}

func NewInterpretationController(interpretationService service.IInterpretationService) IInterpretationController {
	return &interpretationController{
		interpretationService: interpretationService,
	}
}

func (c *interpretationController) RegisterRoutes(r fiber.Router) {
	// Persona listing is public; interpretation endpoints need auth
	r.Get("/v1/personas", c.ListPersonas)

	h := r.Group("/v1/interpretations")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Interpret)
	h.Get(":id", c.Show)

	d := r.Group("/v1/dreams")
	d.Use(serverutils.JwtMiddleware)
	d.Get(":id/interpretations", c.ListByDream)
}

func (c *interpretationController) Interpret(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.InterpretDreamRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.interpretationService.Interpret(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success interpret dream", res))
}

func (c *interpretationController) Show(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	id, _ := uuid.Parse(idParam)

	res, err := c.interpretationService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show interpretation", res))
}

func (c *interpretationController) ListByDream(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	idParam := ctx.Params("id")
	dreamId, _ := uuid.Parse(idParam)

	res, err := c.interpretationService.ListByDream(ctx.Context(), userId, dreamId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list interpretations", res))
}

func (c *interpretationController) ListPersonas(ctx *fiber.Ctx) error {
	res := c.interpretationService.ListPersonas()
	return ctx.JSON(serverutils.SuccessResponse("Success list personas", res))
}
