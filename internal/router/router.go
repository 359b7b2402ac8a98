package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/restaurant-table-booking/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/restaurant-table-booking/internal/middleware" // import middleware for JWT authentication and role enforcement
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance.  Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	// Map the GET request at path "/healthz" to the Health handler.  This
	// endpoint can be used by load balancers or monitoring systems to verify
	// that the service is up and running.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes and applies the
// necessary middleware.  Unauthenticated operations live under /v1/auth,
// while protected endpoints live under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	// Operations that do not require an existing session: register, login
	// and refresh.  Each of these handlers generates or exchanges tokens.
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// Refresh rotates the refresh token and issues a new access token.
	g.POST("/refresh", a.Refresh)
	// Logout does not require JWT authentication.  The handler accepts a
	// JSON body containing a `refresh_token` and invalidates that token.
	g.POST("/logout", a.Logout)

	// Routes that require a valid access token.  All handlers registered
	// on this group execute the JWTAuth middleware before being invoked.
	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	// Both roles may call the generic authenticated endpoints.  The
	// middleware rejects requests with missing or unknown roles.
	auth.Use(middleware.RequireRole("MANAGER", "CUSTOMER"))
	auth.GET("/me", a.Me)
}

// RegisterPublic registers unauthenticated browse endpoints on the provided
// Echo instance.  The provided PublicHandler returns sanitized data for
// restaurants and their tables.  These routes do not apply any JWT or role
// middleware; the supplied extra middleware (typically the Redis response
// cache) wraps them.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	// Expose list of all active restaurants
	e.GET("/v1/restaurants", p.GetPublicRestaurants, mw...)
	// List tables of a specific restaurant with their availability
	e.GET("/v1/restaurants/:id/tables", p.GetPublicTables, mw...)
}
