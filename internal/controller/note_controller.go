package controller

import (
	"context"
	"time"

	"color-notes-be/internal/dto"
	"color-notes-be/internal/entity"
	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/pkg/serverutils"
	"color-notes-be/internal/service"
	"color-notes-be/internal/viewstate"

	"github.com/gofiber/fiber/v2"
)

const defaultSnapshotTimeout = 10 * time.Second

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type noteController struct {
	store           service.INoteStore
	auth            service.IAuthService
	logger          logger.ILogger
	snapshotTimeout time.Duration
}

func NewNoteController(store service.INoteStore, auth service.IAuthService, log logger.ILogger) INoteController {
	return &noteController{
		store:           store,
		auth:            auth,
		logger:          log,
		snapshotTimeout: defaultSnapshotTimeout,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes")
	h.Use(serverutils.NewAuthMiddleware(c.auth))
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Delete)
}

// List opens a list screen just long enough to read its first settled state.
func (c *noteController) List(ctx *fiber.Ctx) error {
	gateway, err := restoreGateway(ctx, c.auth)
	if err != nil {
		return err
	}

	list := viewstate.NewListViewState(c.store, gateway, c.logger)
	states, stopWatch := list.Watch()
	defer stopWatch()

	list.Activate(ctx.UserContext())
	defer list.Deactivate()

	timeout := time.NewTimer(c.snapshotTimeout)
	defer timeout.Stop()

	for {
		select {
		case state := <-states:
			if state.Notes.IsLoading() {
				continue
			}
			res := dto.NewListStateResponse(state)
			if state.Notes.IsFailure() {
				return serverutils.ErrorResponseWithData(ctx, serverutils.StatusFor(state.Notes.Err()), state.Notes.Err().Error(), res)
			}
			return serverutils.SuccessResponse(ctx, "Success list notes", res)
		case <-timeout.C:
			return fiber.NewError(fiber.StatusGatewayTimeout, "notes did not load in time")
		}
	}
}

func (c *noteController) Show(ctx *fiber.Ctx) error {
	session := serverutils.SessionFrom(ctx)

	note, err := ownedNote(ctx.UserContext(), c.store, session.UserId, ctx.Params("id"))
	if err != nil {
		return err
	}
	if note == nil {
		return service.ErrNoteNotFound
	}

	return serverutils.SuccessResponse(ctx, "Success show note", dto.NewNoteResponse(*note))
}

// Delete removes a note through a list holder. Deleting an id that is already
// gone succeeds.
func (c *noteController) Delete(ctx *fiber.Ctx) error {
	session := serverutils.SessionFrom(ctx)
	documentId := ctx.Params("id")

	if _, err := ownedNote(ctx.UserContext(), c.store, session.UserId, documentId); err != nil {
		return err
	}

	gateway, err := restoreGateway(ctx, c.auth)
	if err != nil {
		return err
	}

	list := viewstate.NewListViewState(c.store, gateway, c.logger)
	deleted := list.Delete(ctx.UserContext(), documentId)

	res := dto.DeleteNoteResponse{NoteDeletedStatus: deleted}
	if !deleted {
		return serverutils.ErrorResponseWithData(ctx, fiber.StatusServiceUnavailable, "failed to delete note", res)
	}
	return serverutils.SuccessResponse(ctx, "Success delete note", res)
}

// ownedNote reads documentId and hides notes of other owners behind
// ErrNoteNotFound. A missing note is returned as nil without error.
func ownedNote(ctx context.Context, store service.INoteStore, userId, documentId string) (*entity.Note, error) {
	note, err := store.ReadOne(ctx, documentId)
	if err != nil {
		return nil, err
	}
	if note != nil && note.OwnerId != userId {
		return nil, service.ErrNoteNotFound
	}
	return note, nil
}

// restoreGateway binds a fresh gateway to the request's bearer session.
func restoreGateway(ctx *fiber.Ctx, auth service.IAuthService) (service.IAuthGateway, error) {
	gateway := service.NewAuthGateway(auth)
	if err := gateway.Restore(ctx.UserContext(), serverutils.TokenFrom(ctx)); err != nil {
		return nil, err
	}
	return gateway, nil
}
