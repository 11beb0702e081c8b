package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fisherfans/fisherfans-api/internal/repository"
	"github.com/fisherfans/fisherfans-api/internal/rules"
)

// TripHandler implements the trips collection. Creation is gated by the
// boat-ownership rule; mutation rights resolve through the boat's owner.
type TripHandler struct {
	Trips  *repository.TripRepo
	Engine *rules.Engine
}

func NewTripHandler(trips *repository.TripRepo, engine *rules.Engine) *TripHandler {
	return &TripHandler{Trips: trips, Engine: engine}
}

type tripRequest struct {
	BoatID         *string  `json:"boatId"`
	Title          *string  `json:"title"`
	PracticalInfo  *string  `json:"practicalInfo"`
	TripType       *string  `json:"tripType"`
	PricingType    *string  `json:"pricingType"`
	StartDates     []string `json:"startDates"`
	EndDates       []string `json:"endDates"`
	StartTimes     []string `json:"startTimes"`
	EndTimes       []string `json:"endTimes"`
	PassengerCount *int     `json:"passengerCount"`
	Price          *float64 `json:"price"`
}

func (req *tripRequest) apply(t *repository.Trip) {
	setS := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setS(&t.BoatID, req.BoatID)
	setS(&t.Title, req.Title)
	setS(&t.PracticalInfo, req.PracticalInfo)
	setS(&t.TripType, req.TripType)
	setS(&t.PricingType, req.PricingType)
	if req.StartDates != nil {
		t.StartDates = req.StartDates
	}
	if req.EndDates != nil {
		t.EndDates = req.EndDates
	}
	if req.StartTimes != nil {
		t.StartTimes = req.StartTimes
	}
	if req.EndTimes != nil {
		t.EndTimes = req.EndTimes
	}
	if req.PassengerCount != nil {
		t.PassengerCount = *req.PassengerCount
	}
	if req.Price != nil {
		t.Price = *req.Price
	}
}

// Create publishes a trip. The acting user must own the referenced boat;
// owning no boat at all, or naming an id that is not one of theirs, denies
// with the USER_HAS_NO_BOAT business code.
func (h *TripHandler) Create(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req tripRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	t := &repository.Trip{OrganizerID: actorID}
	req.apply(t)

	if t.BoatID == "" {
		return badRequest(c, "boatId is required")
	}
	if err := rules.ValidateTrip(t); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Engine.CanCreateTrip(ctx, actorID, t.BoatID); err != nil {
		return respondError(c, err)
	}
	if err := h.Trips.Create(ctx, t); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// List searches trips by type and price range.
func (h *TripHandler) List(c echo.Context) error {
	filter := repository.TripSearch{TripType: c.QueryParam("tripType")}
	if raw := c.QueryParam("minPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return badRequest(c, "minPrice must be a number")
		}
		filter.MinPrice = &v
	}
	if raw := c.QueryParam("maxPrice"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return badRequest(c, "maxPrice must be a number")
		}
		filter.MaxPrice = &v
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	trips, err := h.Trips.Search(ctx, filter)
	if err != nil {
		return respondError(c, err)
	}
	if trips == nil {
		trips = []*repository.Trip{}
	}
	return c.JSON(http.StatusOK, trips)
}

// Get returns one trip.
func (h *TripHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Trips.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Update modifies a trip. Ownership resolves through the boat, so only the
// boat's owner passes; moving the trip to a different boat re-runs the
// boat-ownership rule against the new id.
func (h *TripHandler) Update(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id := c.Param("id")

	var req tripRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Engine.CanMutate(ctx, actorID, rules.ResourceRef{Kind: rules.KindTrip, ID: id}); err != nil {
		return respondError(c, err)
	}

	t, err := h.Trips.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	oldBoat := t.BoatID
	req.apply(t)

	if err := rules.ValidateTrip(t); err != nil {
		return respondError(c, err)
	}
	if t.BoatID != oldBoat {
		if err := h.Engine.CanCreateTrip(ctx, actorID, t.BoatID); err != nil {
			return respondError(c, err)
		}
	}
	if err := h.Trips.Update(ctx, t); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, t)
}

// Delete removes a trip; its bookings cascade away.
func (h *TripHandler) Delete(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id := c.Param("id")

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Engine.CanMutate(ctx, actorID, rules.ResourceRef{Kind: rules.KindTrip, ID: id}); err != nil {
		return respondError(c, err)
	}
	if err := h.Trips.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
