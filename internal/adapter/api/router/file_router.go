package router

import (
	"github.com/labstack/echo/v4"

	"github.com/xujalz/Lost-And-Found/internal/adapter/api/handler"
	"github.com/xujalz/Lost-And-Found/internal/adapter/api/middleware"
)

func SetupFileRouter(e *echo.Echo, fileHandler *handler.FileHandler, authMiddleware *middleware.AuthMiddleware) {
	fileGroup := e.Group("/v1/files")
	fileGroup.Use(authMiddleware.Authenticate)

	fileGroup.POST("/upload", fileHandler.UploadFile)
}
