package router

import (
	"github.com/labstack/echo/v4"

	"github.com/xujalz/Lost-And-Found/internal/adapter/api/handler"
)

func SetupHealthRouter(e *echo.Echo, healthHandler *handler.HealthHandler) {
	e.GET("/health", healthHandler.CheckHealth)
}
