package controller

import (
	"dream-insight-be/internal/dto"
	"dream-insight-be/internal/pkg/serverutils"
	"dream-insight-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Ingest(ctx *fiber.Ctx) error
	Classify(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	knowledgeService service.IKnowledgeService
}

func NewKnowledgeController(knowledgeService service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{
		knowledgeService: knowledgeService,
	}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/v1/knowledge")
	h.Use(serverutils.JwtMiddleware)
	h.Post("fragments", c.Ingest)
	h.Post("classify", c.Classify)
}

func (c *knowledgeController) Ingest(ctx *fiber.Ctx) error {
	var req dto.IngestFragmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.knowledgeService.Ingest(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success ingest fragment", res))
}

func (c *knowledgeController) Classify(ctx *fiber.Ctx) error {
	var req dto.ClassifyTextRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res := c.knowledgeService.Classify(req.Text)
	return ctx.JSON(serverutils.SuccessResponse("Success classify text", res))
}
