package controller

import (
	"errors"

	"color-notes-be/internal/dto"
	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/pkg/serverutils"
	"color-notes-be/internal/service"
	"color-notes-be/internal/viewstate"

	"github.com/gofiber/fiber/v2"
)

// SessionCloser releases per-session screens when a session signs out.
type SessionCloser interface {
	CloseSession(userId, tokenId string)
}

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	Session(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IAuthService
	closers []SessionCloser
	logger  logger.ILogger
}

func NewAuthController(service service.IAuthService, log logger.ILogger, closers ...SessionCloser) IAuthController {
	return &authController{
		service: service,
		closers: closers,
		logger:  log,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Post("/logout", serverutils.NewAuthMiddleware(c.service), c.Logout)
	h.Get("/session", c.Session)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	gateway := service.NewAuthGateway(c.service)
	form := viewstate.NewLoginViewState(gateway, c.logger)
	form.SetUserNameSignUp(req.Email)
	form.SetPasswordSignUp(req.Password)
	form.SetConfirmPasswordSignUp(req.ConfirmPassword)

	if err := form.SignUp(ctx.UserContext()); err != nil {
		return serverutils.ErrorResponseWithData(ctx, formStatus(err), err.Error(), dto.NewAuthResponse(nil, form.State()))
	}
	return serverutils.SuccessResponse(ctx, "User registered successfully", dto.NewAuthResponse(gateway.CurrentSession(), form.State()))
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	gateway := service.NewAuthGateway(c.service)
	form := viewstate.NewLoginViewState(gateway, c.logger)
	form.SetUserName(req.Email)
	form.SetPassword(req.Password)

	if err := form.SignIn(ctx.UserContext()); err != nil {
		return serverutils.ErrorResponseWithData(ctx, formStatus(err), err.Error(), dto.NewAuthResponse(nil, form.State()))
	}
	return serverutils.SuccessResponse(ctx, "Login successful", dto.NewAuthResponse(gateway.CurrentSession(), form.State()))
}

// Logout ends the bearer's session and closes the screens opened with it.
func (c *authController) Logout(ctx *fiber.Ctx) error {
	session := serverutils.SessionFrom(ctx)
	if session == nil {
		return fiber.ErrUnauthorized
	}

	gateway := service.NewAuthGateway(c.service)
	if err := gateway.Restore(ctx.UserContext(), serverutils.TokenFrom(ctx)); err != nil {
		return err
	}
	if err := gateway.SignOut(ctx.UserContext()); err != nil {
		// The token is already unusable on this side; report success anyway.
		c.logger.Warn("AuthController", "Backend sign out failed", map[string]interface{}{"user_id": session.UserId, "error": err.Error()})
	}

	for _, closer := range c.closers {
		closer.CloseSession(session.UserId, session.TokenId)
	}

	return serverutils.SuccessResponse(ctx, "Logged out successfully", viewstate.DeriveSession(gateway))
}

// Session reports whether the caller's token (if any) is a live session.
func (c *authController) Session(ctx *fiber.Ctx) error {
	gateway := service.NewAuthGateway(c.service)
	token := serverutils.BearerToken(ctx)
	if token != "" {
		if err := gateway.Restore(ctx.UserContext(), token); err != nil {
			c.logger.Debug("AuthController", "Session restore rejected", map[string]interface{}{"error": err.Error()})
		}
	}
	return serverutils.SuccessResponse(ctx, "Success get session", viewstate.DeriveSession(gateway))
}

func formStatus(err error) int {
	if errors.Is(err, viewstate.ErrEmptyCredentials) || errors.Is(err, viewstate.ErrPasswordMismatch) {
		return fiber.StatusBadRequest
	}
	return serverutils.StatusFor(err)
}
