package handler

import (
	"color-notes-be/internal/pkg/logger"
	"color-notes-be/internal/pkg/serverutils"
	"color-notes-be/internal/service"
	"color-notes-be/internal/viewstate"
	internalWS "color-notes-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ListScreenHandler upgrades authenticated requests into live list screens.
type ListScreenHandler struct {
	auth   service.IAuthService
	store  service.INoteStore
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewListScreenHandler(auth service.IAuthService, store service.INoteStore, hub *internalWS.Hub, log logger.ILogger) *ListScreenHandler {
	return &ListScreenHandler{
		auth:   auth,
		store:  store,
		hub:    hub,
		logger: log,
	}
}

// ServeWs handles websocket requests from the peer. The auth middleware has
// already accepted the token (query "token" for browsers, Bearer otherwise).
func (h *ListScreenHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	session := serverutils.SessionFrom(c)
	token := serverutils.TokenFrom(c)
	if session == nil || token == "" {
		return serverutils.ErrorResponse(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	gateway := service.NewAuthGateway(h.auth)
	if err := gateway.Restore(c.UserContext(), token); err != nil {
		h.logger.Warn("ListScreenHandler", "Session restore failed in WS handshake", map[string]interface{}{"error": err.Error()})
		return serverutils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid token")
	}

	userID := session.UserId
	tokenID := session.TokenId

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ListScreenHandler", "Starting list screen", map[string]interface{}{"user_id": userID})

		list := viewstate.NewListViewState(h.store, gateway, h.logger)
		client := internalWS.NewClient(h.hub, conn, userID, tokenID, list, h.logger)
		internalWS.ServeListScreen(client)

		h.logger.Info("ListScreenHandler", "List screen ended", map[string]interface{}{"user_id": userID})
	})(c)
}

// RegisterRoutes must run before the note routes so /notes/ws is not taken as a note id.
func (h *ListScreenHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/notes/ws", serverutils.NewAuthMiddleware(h.auth), h.ServeWs)
}
