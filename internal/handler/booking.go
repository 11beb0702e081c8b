package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fisherfans/fisherfans-api/internal/queue"
	"github.com/fisherfans/fisherfans-api/internal/repository"
	"github.com/fisherfans/fisherfans-api/internal/rules"
	queue_publisher "github.com/fisherfans/fisherfans-api/internal/service"
)

// BookingHandler implements the bookings collection. The total price is
// derived server-side from the trip, never taken from the client.
type BookingHandler struct {
	Bookings *repository.BookingRepo
	Trips    *repository.TripRepo
	Engine   *rules.Engine
	// PublishEvents disables broker traffic in tests.
	PublishEvents bool
}

func NewBookingHandler(bookings *repository.BookingRepo, trips *repository.TripRepo, engine *rules.Engine) *BookingHandler {
	return &BookingHandler{Bookings: bookings, Trips: trips, Engine: engine, PublishEvents: true}
}

// totalPriceFor derives the amount owed as the trip price times the seat
// count. The client-supplied total, if any, is ignored.
func totalPriceFor(t *repository.Trip, seats int) float64 {
	return t.Price * float64(seats)
}

// Create places a booking. The referenced trip must exist (404 otherwise)
// and the selected date must be one the trip actually offers. On success a
// confirmation event is published asynchronously.
func (h *BookingHandler) Create(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req struct {
		TripID       string `json:"tripId"`
		SelectedDate string `json:"selectedDate"`
		Seats        int    `json:"seats"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	b := &repository.Booking{
		TripID:       req.TripID,
		UserID:       actorID,
		SelectedDate: req.SelectedDate,
		Seats:        req.Seats,
	}
	if err := rules.ValidateBooking(b); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	trip, err := h.Engine.CanCreateBooking(ctx, b.TripID, b.SelectedDate)
	if err != nil {
		return respondError(c, err)
	}
	b.TotalPrice = totalPriceFor(trip, b.Seats)

	if err := h.Bookings.Create(ctx, b); err != nil {
		return respondError(c, err)
	}

	if h.PublishEvents {
		evt := queue.BookingConfirmedEvent{
			BookingID:    b.ID,
			TripID:       trip.ID,
			TripTitle:    trip.Title,
			BoatID:       trip.BoatID,
			UserID:       b.UserID,
			SelectedDate: b.SelectedDate,
			Seats:        b.Seats,
			TotalPrice:   b.TotalPrice,
			ConfirmedAt:  time.Now().UTC().Format(time.RFC3339),
		}
		go func() {
			pctx, pcancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer pcancel()
			_ = queue_publisher.PublishBookingConfirmed(pctx, evt)
		}()
	}
	return c.JSON(http.StatusCreated, b)
}

// List returns bookings filtered by tripId and/or userId.
func (h *BookingHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	bookings, err := h.Bookings.List(ctx, repository.BookingSearch{
		TripID: c.QueryParam("tripId"),
		UserID: c.QueryParam("userId"),
	})
	if err != nil {
		return respondError(c, err)
	}
	if bookings == nil {
		bookings = []*repository.Booking{}
	}
	return c.JSON(http.StatusOK, bookings)
}

// Get returns one booking.
func (h *BookingHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Update changes the date or seat count of a booking. Only the passenger who
// placed it may modify it; the total is recomputed from the trip.
func (h *BookingHandler) Update(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id := c.Param("id")

	var req struct {
		SelectedDate *string `json:"selectedDate"`
		Seats        *int    `json:"seats"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Engine.CanMutate(ctx, actorID, rules.ResourceRef{Kind: rules.KindBooking, ID: id}); err != nil {
		return respondError(c, err)
	}

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if req.SelectedDate != nil {
		b.SelectedDate = *req.SelectedDate
	}
	if req.Seats != nil {
		b.Seats = *req.Seats
	}
	if err := rules.ValidateBooking(b); err != nil {
		return respondError(c, err)
	}

	trip, err := h.Engine.CanCreateBooking(ctx, b.TripID, b.SelectedDate)
	if err != nil {
		return respondError(c, err)
	}
	b.TotalPrice = totalPriceFor(trip, b.Seats)

	if err := h.Bookings.Update(ctx, b); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Delete cancels a booking.
func (h *BookingHandler) Delete(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id := c.Param("id")

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Engine.CanMutate(ctx, actorID, rules.ResourceRef{Kind: rules.KindBooking, ID: id}); err != nil {
		return respondError(c, err)
	}
	if err := h.Bookings.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
