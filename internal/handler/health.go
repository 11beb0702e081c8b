package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is probed by load balancers and container orchestration; it answers
// without touching the database.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
