package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fisherfans/fisherfans-api/internal/config"
	"github.com/fisherfans/fisherfans-api/internal/repository"
	"github.com/fisherfans/fisherfans-api/internal/rules"
	"github.com/fisherfans/fisherfans-api/internal/utils"
)

// UserHandler implements registration, the user directory, profile updates
// and the per-user sub-collections (boats, trips, bookings).
type UserHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Boats    *repository.BoatRepo
	Trips    *repository.TripRepo
	Bookings *repository.BookingRepo
	Engine   *rules.Engine
}

func NewUserHandler(cfg config.Config, users *repository.UserRepo, boats *repository.BoatRepo,
	trips *repository.TripRepo, bookings *repository.BookingRepo, engine *rules.Engine) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Boats: boats, Trips: trips, Bookings: bookings, Engine: engine}
}

// Register creates an account. This is the only unauthenticated write in the
// API; the email unique key turns a duplicate registration into a 409.
func (h *UserHandler) Register(c echo.Context) error {
	var req struct {
		LastName          string   `json:"lastName"`
		FirstName         string   `json:"firstName"`
		Email             string   `json:"email"`
		Password          string   `json:"password"`
		City              string   `json:"city"`
		Phone             string   `json:"phone"`
		PhotoURL          string   `json:"photoUrl"`
		Status            string   `json:"status"`
		BoatLicenseNumber string   `json:"boatLicenseNumber"`
		InsuranceNumber   string   `json:"insuranceNumber"`
		CompanyName       string   `json:"companyName"`
		ActivityType      string   `json:"activityType"`
		BirthDate         string   `json:"birthDate"`
		Address           string   `json:"address"`
		PostalCode        string   `json:"postalCode"`
		Languages         []string `json:"languages"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	u := &repository.User{
		LastName:          req.LastName,
		FirstName:         req.FirstName,
		Email:             req.Email,
		City:              req.City,
		Phone:             req.Phone,
		PhotoURL:          req.PhotoURL,
		Status:            req.Status,
		BoatLicenseNumber: req.BoatLicenseNumber,
		InsuranceNumber:   req.InsuranceNumber,
		CompanyName:       req.CompanyName,
		ActivityType:      req.ActivityType,
		BirthDate:         req.BirthDate,
		Address:           req.Address,
		PostalCode:        req.PostalCode,
		Languages:         req.Languages,
	}
	if err := rules.ValidatePassword(req.Password); err != nil {
		return respondError(c, err)
	}
	if err := rules.ValidateUser(u); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Users.Create(ctx, u, req.Password, h.Cfg.BcryptCost); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, u)
}

// Search lists users filtered by lastName, city and status query params.
func (h *UserHandler) Search(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.Users.Search(ctx,
		c.QueryParam("lastName"), c.QueryParam("city"), c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	if users == nil {
		users = []*repository.User{}
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns one user's public profile.
func (h *UserHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Update modifies a profile. A malformed body is a 400 before any lookup.
// Users can only modify themselves; the engine resolves existence first so
// an unknown id is a 404, not a 403. Partial bodies are merged into the
// stored record before validation.
func (h *UserHandler) Update(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	targetID := c.Param("id")

	var req struct {
		LastName          *string  `json:"lastName"`
		FirstName         *string  `json:"firstName"`
		Email             *string  `json:"email"`
		Password          *string  `json:"password"`
		City              *string  `json:"city"`
		Phone             *string  `json:"phone"`
		PhotoURL          *string  `json:"photoUrl"`
		Status            *string  `json:"status"`
		BoatLicenseNumber *string  `json:"boatLicenseNumber"`
		InsuranceNumber   *string  `json:"insuranceNumber"`
		CompanyName       *string  `json:"companyName"`
		ActivityType      *string  `json:"activityType"`
		BirthDate         *string  `json:"birthDate"`
		Address           *string  `json:"address"`
		PostalCode        *string  `json:"postalCode"`
		Languages         []string `json:"languages"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Engine.CanMutate(ctx, actorID, rules.ResourceRef{Kind: rules.KindUser, ID: targetID}); err != nil {
		return respondError(c, err)
	}

	u, err := h.Users.GetByID(ctx, targetID)
	if err != nil {
		return respondError(c, err)
	}

	setStr := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setStr(&u.LastName, req.LastName)
	setStr(&u.FirstName, req.FirstName)
	setStr(&u.Email, req.Email)
	setStr(&u.City, req.City)
	setStr(&u.Phone, req.Phone)
	setStr(&u.PhotoURL, req.PhotoURL)
	setStr(&u.Status, req.Status)
	setStr(&u.BoatLicenseNumber, req.BoatLicenseNumber)
	setStr(&u.InsuranceNumber, req.InsuranceNumber)
	setStr(&u.CompanyName, req.CompanyName)
	setStr(&u.ActivityType, req.ActivityType)
	setStr(&u.BirthDate, req.BirthDate)
	setStr(&u.Address, req.Address)
	setStr(&u.PostalCode, req.PostalCode)
	if req.Languages != nil {
		u.Languages = req.Languages
	}

	if req.Password != nil {
		if err := rules.ValidatePassword(*req.Password); err != nil {
			return respondError(c, err)
		}
		hash, err := utils.HashPassword(*req.Password, h.Cfg.BcryptCost)
		if err != nil {
			return respondError(c, err)
		}
		u.PasswordHash = hash
	}
	if err := rules.ValidateUser(u); err != nil {
		return respondError(c, err)
	}

	if err := h.Users.Update(ctx, u); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

// Delete anonymizes the account rather than removing the row, so bookings
// and logbook entries keep a resolvable owner. Self-only, like Update.
func (h *UserHandler) Delete(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	targetID := c.Param("id")

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Engine.CanMutate(ctx, actorID, rules.ResourceRef{Kind: rules.KindUser, ID: targetID}); err != nil {
		return respondError(c, err)
	}
	if err := h.Users.Anonymize(ctx, targetID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListBoats returns the boats owned by one user.
func (h *UserHandler) ListBoats(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	id := c.Param("id")
	if _, err := h.Users.GetByID(ctx, id); err != nil {
		return respondError(c, err)
	}
	boats, err := h.Boats.ListByOwner(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if boats == nil {
		boats = []*repository.Boat{}
	}
	return c.JSON(http.StatusOK, boats)
}

// ListTrips returns the trips organized by one user.
func (h *UserHandler) ListTrips(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	id := c.Param("id")
	if _, err := h.Users.GetByID(ctx, id); err != nil {
		return respondError(c, err)
	}
	trips, err := h.Trips.ListByOrganizer(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	if trips == nil {
		trips = []*repository.Trip{}
	}
	return c.JSON(http.StatusOK, trips)
}

// ListBookings returns the bookings placed by one user.
func (h *UserHandler) ListBookings(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	id := c.Param("id")
	if _, err := h.Users.GetByID(ctx, id); err != nil {
		return respondError(c, err)
	}
	bookings, err := h.Bookings.List(ctx, repository.BookingSearch{UserID: id})
	if err != nil {
		return respondError(c, err)
	}
	if bookings == nil {
		bookings = []*repository.Booking{}
	}
	return c.JSON(http.StatusOK, bookings)
}
