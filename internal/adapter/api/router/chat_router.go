package router

import (
	"github.com/labstack/echo/v4"

	"github.com/xujalz/Lost-And-Found/internal/adapter/api/handler"
	"github.com/xujalz/Lost-And-Found/internal/adapter/api/middleware"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chatGroup := e.Group("/v1/chats")
	chatGroup.Use(authMiddleware.Authenticate)

	chatGroup.POST("", chatHandler.OpenChat)
	chatGroup.GET("", chatHandler.ListChats)
	chatGroup.GET("/:id/messages", chatHandler.GetMessages)
	chatGroup.POST("/:id/messages", chatHandler.SendMessage)
	chatGroup.PUT("/:id/read", chatHandler.MarkChatRead)
}
