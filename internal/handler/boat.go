package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fisherfans/fisherfans-api/internal/geo"
	"github.com/fisherfans/fisherfans-api/internal/repository"
	"github.com/fisherfans/fisherfans-api/internal/rules"
)

// BoatHandler implements the boats collection: creation gated by the boating
// permit rule, attribute and bounding-box search, and owner-only mutation.
type BoatHandler struct {
	Boats  *repository.BoatRepo
	Engine *rules.Engine
}

func NewBoatHandler(boats *repository.BoatRepo, engine *rules.Engine) *BoatHandler {
	return &BoatHandler{Boats: boats, Engine: engine}
}

type boatRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Brand       *string  `json:"brand"`
	YearBuilt   *int     `json:"yearBuilt"`
	PhotoURL    *string  `json:"photoUrl"`
	LicenseType *string  `json:"licenseType"`
	BoatType    *string  `json:"boatType"`
	Equipment   []string `json:"equipment"`
	Deposit     *float64 `json:"deposit"`
	MaxCapacity *int     `json:"maxCapacity"`
	BedCount    *int     `json:"bedCount"`
	HomePort    *string  `json:"homePort"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	EngineType  *string  `json:"engineType"`
	EnginePower *int     `json:"enginePower"`
}

// apply merges the present fields of a request onto a boat record; absent
// fields keep their stored value, which makes PUT behave as a partial update.
func (req *boatRequest) apply(b *repository.Boat) {
	setS := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setI := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setS(&b.Name, req.Name)
	setS(&b.Description, req.Description)
	setS(&b.Brand, req.Brand)
	setI(&b.YearBuilt, req.YearBuilt)
	setS(&b.PhotoURL, req.PhotoURL)
	setS(&b.LicenseType, req.LicenseType)
	setS(&b.BoatType, req.BoatType)
	if req.Equipment != nil {
		b.Equipment = req.Equipment
	}
	if req.Deposit != nil {
		b.Deposit = *req.Deposit
	}
	setI(&b.MaxCapacity, req.MaxCapacity)
	setI(&b.BedCount, req.BedCount)
	setS(&b.HomePort, req.HomePort)
	if req.Latitude != nil {
		b.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		b.Longitude = req.Longitude
	}
	setS(&b.EngineType, req.EngineType)
	setI(&b.EnginePower, req.EnginePower)
}

// Create registers a boat for the authenticated user. Field validation runs
// first, then the permit rule: a user without a boat license number is denied
// with the PERMIT_REQUIRED business code.
func (h *BoatHandler) Create(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req boatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	b := &repository.Boat{OwnerID: actorID}
	req.apply(b)

	if err := rules.ValidateBoat(b); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Engine.CanCreateBoat(ctx, actorID); err != nil {
		return respondError(c, err)
	}
	if err := h.Boats.Create(ctx, b); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// List searches boats. Attribute filters (boatType, homePort, minCapacity)
// are pushed into SQL; the optional bounding box (minLat, maxLat, minLng,
// maxLng) is applied afterwards in memory. A partial box is ignored, an
// inverted or unparsable one is a 400.
func (h *BoatHandler) List(c echo.Context) error {
	filter := repository.BoatSearch{
		BoatType: c.QueryParam("boatType"),
		HomePort: c.QueryParam("homePort"),
	}
	if raw := c.QueryParam("minCapacity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return badRequest(c, "minCapacity must be a non-negative integer")
		}
		filter.MinCapacity = n
	}

	box, err := geo.ParseBounds(
		c.QueryParam("minLat"), c.QueryParam("maxLat"),
		c.QueryParam("minLng"), c.QueryParam("maxLng"))
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	boats, err := h.Boats.Search(ctx, filter)
	if err != nil {
		return respondError(c, err)
	}
	boats = geo.FilterBoats(boats, box)
	if boats == nil {
		boats = []*repository.Boat{}
	}
	return c.JSON(http.StatusOK, boats)
}

// Get returns one boat.
func (h *BoatHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	b, err := h.Boats.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Update modifies a boat. The body is bound first so a malformed request is
// a 400 regardless of the target; then the owner-only rule runs, existence
// before ownership, and only the merged record is validated.
func (h *BoatHandler) Update(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id := c.Param("id")

	var req boatRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Engine.CanMutate(ctx, actorID, rules.ResourceRef{Kind: rules.KindBoat, ID: id}); err != nil {
		return respondError(c, err)
	}

	b, err := h.Boats.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	req.apply(b)

	if err := rules.ValidateBoat(b); err != nil {
		return respondError(c, err)
	}
	if err := h.Boats.Update(ctx, b); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Delete removes a boat; trips on it and their bookings cascade away.
func (h *BoatHandler) Delete(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id := c.Param("id")

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Engine.CanMutate(ctx, actorID, rules.ResourceRef{Kind: rules.KindBoat, ID: id}); err != nil {
		return respondError(c, err)
	}
	if err := h.Boats.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
