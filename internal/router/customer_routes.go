package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-table-booking/internal/handler"
	"github.com/iliyamo/restaurant-table-booking/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All routes
// require a valid JWT and the CUSTOMER role.  Customers can create and
// cancel bookings, list their own bookings and work with their
// notification feed.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, n *handler.NotificationHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER"),
	)

	// Notification routes are registered before the :id booking routes.
	// Echo resolves static segments ahead of parameters either way, but
	// keeping them first makes the /bookings/notifications vs
	// /bookings/:id split obvious when reading this file.
	g.GET("/bookings/notifications", n.GetNotifications)
	g.GET("/bookings/notifications/unread-count", n.GetUnreadCount)
	g.PUT("/bookings/notifications/mark-all-read", n.MarkAllRead)
	g.PUT("/bookings/notifications/:id/read", n.MarkRead)

	g.POST("/bookings", b.CreateBooking)
	g.GET("/bookings", b.ListBookings)
	g.GET("/bookings/:id", b.GetBooking)
	g.PUT("/bookings/:id/cancel", b.CancelBooking)
}
