package router

import (
	"github.com/labstack/echo/v4"

	"github.com/xujalz/Lost-And-Found/internal/adapter/api/handler"
	"github.com/xujalz/Lost-And-Found/internal/adapter/api/middleware"
)

func SetupItemRouter(e *echo.Echo, lostHandler, foundHandler *handler.ItemHandler, authMiddleware *middleware.AuthMiddleware) {
	setupItemGroup(e.Group("/v1/lost"), lostHandler, authMiddleware)
	setupItemGroup(e.Group("/v1/found"), foundHandler, authMiddleware)
}

func setupItemGroup(group *echo.Group, itemHandler *handler.ItemHandler, authMiddleware *middleware.AuthMiddleware) {
	group.GET("", itemHandler.ListItems)
	group.GET("/:id", itemHandler.GetItem)

	group.POST("", itemHandler.CreateItem, authMiddleware.Authenticate)
	group.GET("/mine", itemHandler.ListMyItems, authMiddleware.Authenticate)
	group.PUT("/:id", itemHandler.UpdateItem, authMiddleware.Authenticate)
	group.DELETE("/:id", itemHandler.DeleteItem, authMiddleware.Authenticate)
}
