package serverutils

import (
	"strings"

	"color-notes-be/internal/entity"
	"color-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

const (
	localSession = "session"
	localToken   = "token"
)

// NewAuthMiddleware admits requests carrying a live session token, either as a
// Bearer header or, for websocket handshakes, as the "token" query parameter.
func NewAuthMiddleware(auth service.IAuthService) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		token := BearerToken(ctx)
		if token == "" {
			token = ctx.Query("token")
		}
		if token == "" {
			return ErrorResponse(ctx, fiber.StatusUnauthorized, "Missing token")
		}

		session, err := auth.Authenticate(ctx.UserContext(), token)
		if err != nil {
			return ErrorResponse(ctx, fiber.StatusUnauthorized, "Invalid token")
		}

		ctx.Locals(localSession, session)
		ctx.Locals(localToken, token)
		ctx.Locals("user_id", session.UserId)
		return ctx.Next()
	}
}

func BearerToken(ctx *fiber.Ctx) string {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return authHeader[7:]
	}
	return ""
}

// SessionFrom returns the session installed by the auth middleware.
func SessionFrom(ctx *fiber.Ctx) *entity.Session {
	session, _ := ctx.Locals(localSession).(*entity.Session)
	return session
}

func TokenFrom(ctx *fiber.Ctx) string {
	token, _ := ctx.Locals(localToken).(string)
	return token
}
