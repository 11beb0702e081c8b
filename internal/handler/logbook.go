package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fisherfans/fisherfans-api/internal/repository"
	"github.com/fisherfans/fisherfans-api/internal/rules"
)

// LogbookHandler implements the personal fishing log. Entries belong to
// their author; the listing defaults to the caller's own log.
type LogbookHandler struct {
	Logbook *repository.LogbookRepo
	Engine  *rules.Engine
}

func NewLogbookHandler(logbook *repository.LogbookRepo, engine *rules.Engine) *LogbookHandler {
	return &LogbookHandler{Logbook: logbook, Engine: engine}
}

type logbookRequest struct {
	FishSpecies *string  `json:"fishSpecies"`
	PhotoURL    *string  `json:"photoUrl"`
	Comment     *string  `json:"comment"`
	Length      *float64 `json:"length"`
	Weight      *float64 `json:"weight"`
	Location    *string  `json:"location"`
	FishingDate *string  `json:"fishingDate"`
	Released    *bool    `json:"released"`
}

func (req *logbookRequest) apply(e *repository.LogbookEntry) {
	setS := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setS(&e.FishSpecies, req.FishSpecies)
	setS(&e.PhotoURL, req.PhotoURL)
	setS(&e.Comment, req.Comment)
	if req.Length != nil {
		e.Length = *req.Length
	}
	if req.Weight != nil {
		e.Weight = *req.Weight
	}
	setS(&e.Location, req.Location)
	setS(&e.FishingDate, req.FishingDate)
	if req.Released != nil {
		e.Released = *req.Released
	}
}

// Create records a catch in the caller's log.
func (h *LogbookHandler) Create(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req logbookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	e := &repository.LogbookEntry{UserID: actorID}
	req.apply(e)

	if err := rules.ValidateEntry(e); err != nil {
		return respondError(c, err)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	if err := h.Logbook.Create(ctx, e); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, e)
}

// List returns entries of one user's log, the caller's own unless userId
// says otherwise, optionally filtered by startDate and fishSpecies.
func (h *LogbookHandler) List(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	filter := repository.LogbookSearch{
		UserID:      c.QueryParam("userId"),
		StartDate:   c.QueryParam("startDate"),
		FishSpecies: c.QueryParam("fishSpecies"),
	}
	if filter.UserID == "" {
		filter.UserID = actorID
	}

	ctx, cancel := reqCtx(c)
	defer cancel()
	entries, err := h.Logbook.List(ctx, filter)
	if err != nil {
		return respondError(c, err)
	}
	if entries == nil {
		entries = []*repository.LogbookEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}

// Get returns one entry.
func (h *LogbookHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Logbook.GetByID(ctx, c.Param("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Update modifies an entry after the owner-only rule has passed.
func (h *LogbookHandler) Update(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id := c.Param("id")

	var req logbookRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Engine.CanMutate(ctx, actorID, rules.ResourceRef{Kind: rules.KindLogbook, ID: id}); err != nil {
		return respondError(c, err)
	}

	e, err := h.Logbook.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	req.apply(e)

	if err := rules.ValidateEntry(e); err != nil {
		return respondError(c, err)
	}
	if err := h.Logbook.Update(ctx, e); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, e)
}

// Delete removes an entry.
func (h *LogbookHandler) Delete(c echo.Context) error {
	actorID, ok := getUserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}
	id := c.Param("id")

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Engine.CanMutate(ctx, actorID, rules.ResourceRef{Kind: rules.KindLogbook, ID: id}); err != nil {
		return respondError(c, err)
	}
	if err := h.Logbook.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
