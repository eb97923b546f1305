package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type HealthController struct{}

func (controller *HealthController) HealthRoutes(e *echo.Echo) {
	e.GET("/health", controller.Health)
}

func (controller *HealthController) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: "Athena Fashion Search API",
	})
}
