// Package router maps the HTTP surface of the API onto handlers. All
// application routes live under the /api prefix; only registration and the
// auth endpoints are reachable without a bearer token.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/fisherfans/fisherfans-api/internal/handler"
	"github.com/fisherfans/fisherfans-api/internal/middleware"
)

// Handlers bundles every handler the API mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	Boats   *handler.BoatHandler
	Trips   *handler.TripHandler
	Booking *handler.BookingHandler
	Logbook *handler.LogbookHandler
}

// Register wires all routes. rateLimit applies to everything under /api;
// cache is applied only to the public-data listing GETs, where repeated
// identical queries dominate traffic. Either middleware may be nil.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rateLimit, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	api := e.Group("/api")
	if rateLimit != nil {
		api.Use(rateLimit)
	}

	// Session lifecycle, no token required.
	auth := api.Group("/auth/v1")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh", h.Auth.Refresh)
	auth.POST("/logout", h.Auth.Logout)

	// Registration is the only unauthenticated write.
	api.POST("/v1/users", h.Users.Register)

	v1 := api.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))

	v1.GET("/users", h.Users.Search)
	v1.GET("/users/:id", h.Users.Get)
	v1.PUT("/users/:id", h.Users.Update)
	v1.PATCH("/users/:id", h.Users.Update)
	v1.DELETE("/users/:id", h.Users.Delete)
	v1.GET("/users/:id/boats", h.Users.ListBoats)
	v1.GET("/users/:id/trips", h.Users.ListTrips)
	v1.GET("/users/:id/bookings", h.Users.ListBookings)

	v1.POST("/boats", h.Boats.Create)
	if cache != nil {
		v1.GET("/boats", h.Boats.List, cache)
	} else {
		v1.GET("/boats", h.Boats.List)
	}
	v1.GET("/boats/:id", h.Boats.Get)
	v1.PUT("/boats/:id", h.Boats.Update)
	v1.PATCH("/boats/:id", h.Boats.Update)
	v1.DELETE("/boats/:id", h.Boats.Delete)

	v1.POST("/trips", h.Trips.Create)
	if cache != nil {
		v1.GET("/trips", h.Trips.List, cache)
	} else {
		v1.GET("/trips", h.Trips.List)
	}
	v1.GET("/trips/:id", h.Trips.Get)
	v1.PUT("/trips/:id", h.Trips.Update)
	v1.PATCH("/trips/:id", h.Trips.Update)
	v1.DELETE("/trips/:id", h.Trips.Delete)

	v1.POST("/bookings", h.Booking.Create)
	v1.GET("/bookings", h.Booking.List)
	v1.GET("/bookings/:id", h.Booking.Get)
	v1.PUT("/bookings/:id", h.Booking.Update)
	v1.PATCH("/bookings/:id", h.Booking.Update)
	v1.DELETE("/bookings/:id", h.Booking.Delete)

	v1.POST("/logbook", h.Logbook.Create)
	v1.GET("/logbook", h.Logbook.List)
	v1.GET("/logbook/:id", h.Logbook.Get)
	v1.PUT("/logbook/:id", h.Logbook.Update)
	v1.PATCH("/logbook/:id", h.Logbook.Update)
	v1.DELETE("/logbook/:id", h.Logbook.Delete)
}
