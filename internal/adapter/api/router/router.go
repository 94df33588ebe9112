package router

import (
	"github.com/labstack/echo/v4"

	"github.com/xujalz/Lost-And-Found/internal/adapter/api/handler"
	"github.com/xujalz/Lost-And-Found/internal/adapter/api/middleware"
)

type Handlers struct {
	Chat      *handler.ChatHandler
	LostItem  *handler.ItemHandler
	FoundItem *handler.ItemHandler
	File      *handler.FileHandler
	User      *handler.UserHandler
	Health    *handler.HealthHandler
	WebSocket *handler.WebSocketHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	SetupHealthRouter(e, h.Health)
	SetupChatRouter(e, h.Chat, authMiddleware)
	SetupItemRouter(e, h.LostItem, h.FoundItem, authMiddleware)
	SetupFileRouter(e, h.File, authMiddleware)
	SetupUserRouter(e, h.User, authMiddleware)
	SetupWebSocketRouter(e, h.WebSocket)
}
