package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fisherfans/fisherfans-api/internal/repository"
	"github.com/fisherfans/fisherfans-api/internal/rules"
)

// getUserID returns the authenticated user's id placed in context by the JWT
// middleware. The bool is false on unauthenticated routes.
func getUserID(c echo.Context) (string, bool) {
	s, ok := c.Get("user_id").(string)
	return s, ok && s != ""
}

// reqCtx derives a bounded context from the request so a stalled database
// never pins a handler goroutine.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// respondError maps domain errors onto the API's error contract. Rule
// denials carry their own status and optional businessCode; repository
// sentinels map to 404/409/401; anything else is an internal failure.
func respondError(c echo.Context, err error) error {
	var v *rules.Violation
	if errors.As(err, &v) {
		body := echo.Map{"error": v.Message}
		if v.BusinessCode != "" {
			body["businessCode"] = v.BusinessCode
		}
		return c.JSON(v.Status, body)
	}

	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrBoatNotFound),
		errors.Is(err, repository.ErrTripNotFound),
		errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrEntryNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already registered"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrInvalidRefresh):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	c.Logger().Errorf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
}

// badRequest is the uniform shape for malformed bodies and query params.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}
