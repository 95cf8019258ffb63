package controller

import (
	"color-notes-be/internal/dto"
	"color-notes-be/internal/entity"
	"color-notes-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

type IPaletteController interface {
	RegisterRoutes(r fiber.Router)
	Get(ctx *fiber.Ctx) error
}

type paletteController struct{}

func NewPaletteController() IPaletteController {
	return &paletteController{}
}

func (c *paletteController) RegisterRoutes(r fiber.Router) {
	r.Get("/palette", c.Get)
}

func (c *paletteController) Get(ctx *fiber.Ctx) error {
	colors := make([]string, len(entity.NotePalette))
	copy(colors, entity.NotePalette)
	return serverutils.SuccessResponse(ctx, "Success get palette", dto.PaletteResponse{Colors: colors})
}
