package controller

import (
	"time"

	"color-notes-be/internal/dto"
	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/pkg/serverutils"
	"color-notes-be/internal/repository/memory"
	"color-notes-be/internal/service"
	"color-notes-be/internal/viewstate"

	"github.com/gofiber/fiber/v2"
)

type IDetailController interface {
	RegisterRoutes(r fiber.Router)
	CloseSession(userId, tokenId string)
	Show(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
	Load(ctx *fiber.Ctx) error
	Edit(ctx *fiber.Ctx) error
	Save(ctx *fiber.Ctx) error
	CommitUpdate(ctx *fiber.Ctx) error
	ClearFlags(ctx *fiber.Ctx) error
}

// detailController keeps one detail screen per session token.
type detailController struct {
	store   service.INoteStore
	auth    service.IAuthService
	screens *memory.ScreenRepository[*viewstate.DetailViewState]
	logger  logger.ILogger
}

func NewDetailController(store service.INoteStore, auth service.IAuthService, screenTTL time.Duration, log logger.ILogger) IDetailController {
	return &detailController{
		store:   store,
		auth:    auth,
		screens: memory.NewScreenRepository[*viewstate.DetailViewState](screenTTL, nil),
		logger:  log,
	}
}

func (c *detailController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/detail")
	h.Use(serverutils.NewAuthMiddleware(c.auth))
	h.Get("", c.Show)
	h.Patch("", c.Edit)
	h.Post("/reset", c.Reset)
	h.Post("/load/:id", c.Load)
	h.Post("/save", c.Save)
	h.Post("/update/:id", c.CommitUpdate)
	h.Post("/clear-flags", c.ClearFlags)
}

func (c *detailController) CloseSession(userId, tokenId string) {
	if tokenId == "" {
		return
	}
	c.screens.Delete(tokenId)
}

func (c *detailController) screen(ctx *fiber.Ctx) (*viewstate.DetailViewState, error) {
	session := serverutils.SessionFrom(ctx)
	if session == nil {
		return nil, service.ErrNotAuthenticated
	}

	return c.screens.GetOrCreate(session.TokenId, func() (*viewstate.DetailViewState, error) {
		gateway, err := restoreGateway(ctx, c.auth)
		if err != nil {
			return nil, err
		}
		return viewstate.NewDetailViewState(c.store, gateway, c.logger), nil
	})
}

func (c *detailController) respond(ctx *fiber.Ctx, message string, screen *viewstate.DetailViewState) error {
	return serverutils.SuccessResponse(ctx, message, dto.NewDetailStateResponse(screen.State()))
}

func (c *detailController) Show(ctx *fiber.Ctx) error {
	screen, err := c.screen(ctx)
	if err != nil {
		return err
	}
	return c.respond(ctx, "Success get detail", screen)
}

func (c *detailController) Reset(ctx *fiber.Ctx) error {
	screen, err := c.screen(ctx)
	if err != nil {
		return err
	}
	screen.Reset()
	return c.respond(ctx, "Success reset detail", screen)
}

// Load fills the form from a note the caller owns. Unknown ids leave the form unchanged.
func (c *detailController) Load(ctx *fiber.Ctx) error {
	screen, err := c.screen(ctx)
	if err != nil {
		return err
	}

	session := serverutils.SessionFrom(ctx)
	if _, err := ownedNote(ctx.UserContext(), c.store, session.UserId, ctx.Params("id")); err != nil {
		return err
	}

	screen.Load(ctx.UserContext(), ctx.Params("id"))
	return c.respond(ctx, "Success load detail", screen)
}

func (c *detailController) Edit(ctx *fiber.Ctx) error {
	var req dto.UpdateDetailRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	screen, err := c.screen(ctx)
	if err != nil {
		return err
	}

	if req.Title != nil {
		screen.SetTitle(*req.Title)
	}
	if req.Note != nil {
		screen.SetNote(*req.Note)
	}
	if req.ColorIndex != nil {
		screen.SetColorIndex(*req.ColorIndex)
	}
	return c.respond(ctx, "Success edit detail", screen)
}

func (c *detailController) Save(ctx *fiber.Ctx) error {
	screen, err := c.screen(ctx)
	if err != nil {
		return err
	}

	if err := screen.Save(ctx.UserContext()); err != nil {
		return serverutils.ErrorResponseWithData(ctx, serverutils.StatusFor(err), err.Error(), dto.NewDetailStateResponse(screen.State()))
	}
	return c.respond(ctx, "Success save note", screen)
}

func (c *detailController) CommitUpdate(ctx *fiber.Ctx) error {
	screen, err := c.screen(ctx)
	if err != nil {
		return err
	}

	session := serverutils.SessionFrom(ctx)
	documentId := ctx.Params("id")
	note, err := ownedNote(ctx.UserContext(), c.store, session.UserId, documentId)
	if err != nil {
		return err
	}
	if note == nil {
		return service.ErrNoteNotFound
	}

	if err := screen.CommitUpdate(ctx.UserContext(), documentId); err != nil {
		return serverutils.ErrorResponseWithData(ctx, serverutils.StatusFor(err), err.Error(), dto.NewDetailStateResponse(screen.State()))
	}
	return c.respond(ctx, "Success update note", screen)
}

func (c *detailController) ClearFlags(ctx *fiber.Ctx) error {
	screen, err := c.screen(ctx)
	if err != nil {
		return err
	}
	screen.ClearResultFlags()
	return c.respond(ctx, "Success clear flags", screen)
}
