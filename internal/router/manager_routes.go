package router // router defines how HTTP routes are registered for the API

import (
	"github.com/iliyamo/restaurant-table-booking/internal/handler"    // manager handlers
	"github.com/iliyamo/restaurant-table-booking/internal/middleware" // JWT + role middlewares
	"github.com/labstack/echo/v4"
)

// RegisterManager registers MANAGER-scoped endpoints under /v1.
// All routes require a valid JWT and MANAGER role.
func RegisterManager(e *echo.Echo, m *handler.ManagerHandler, jwtSecret string) {
	// Attach middlewares at group construction time for clarity.
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("MANAGER"),
	)

	// ---- Restaurants ----
	g.POST("/restaurants", m.CreateRestaurant)
	// NOTE: Listing restaurants is handled by the public browse API.

	// ---- Tables ----
	g.POST("/restaurants/:id/tables", m.CreateTable)
	// NOTE: Listing tables by restaurant is provided by the public API
	// (GET /v1/restaurants/:id/tables).
}
