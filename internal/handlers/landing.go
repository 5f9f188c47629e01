package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// LandingHandler serves the public landing page.
type LandingHandler struct{}

func (LandingHandler) Landing(c echo.Context) error {
	return c.Render(http.StatusOK, "landing.html", nil)
}
