package handler

import (
	"net/http"

	"github.com/abdul977/muahibstores/internal/middleware"
	"github.com/abdul977/muahibstores/internal/visitor"
	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// VisitorHandler serves visit tracking and popup gating for the visitor cookie
type VisitorHandler struct {
	tracker *visitor.Tracker
}

// NewVisitorHandler creates a visitor handler
func NewVisitorHandler(tracker *visitor.Tracker) *VisitorHandler {
	return &VisitorHandler{tracker: tracker}
}

func (h *VisitorHandler) bind(c echo.Context) (clientContext, bool) {
	cc, err := bindClientContext(c)
	if err != nil {
		logger.FromEcho(c).Warn("Invalid visitor context", zap.Error(err))
		return cc, false
	}
	cc.Browser = browserFrom(c, cc.Browser)
	return cc, true
}

// Visit records a page view and returns the visitor, device, page and UTM details
func (h *VisitorHandler) Visit(c echo.Context) error {
	cc, ok := h.bind(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	stats := h.tracker.Stats(c.Request().Context(), middleware.VisitorID(c), cc.Browser, pageFrom(c, cc))
	return c.JSON(http.StatusOK, stats)
}

// Popup decides whether the lead capture popup should open on ?path=
func (h *VisitorHandler) Popup(c echo.Context) error {
	cc, ok := h.bind(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	path := c.QueryParam("path")
	if path == "" {
		path = pageFrom(c, cc).Pathname
	}
	return c.JSON(http.StatusOK, h.tracker.Decide(c.Request().Context(), middleware.VisitorID(c), cc.Browser, path))
}

// PopupShown records that the popup was displayed and dismissed
func (h *VisitorHandler) PopupShown(c echo.Context) error {
	cc, ok := h.bind(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	return c.JSON(http.StatusOK, h.tracker.MarkPopupShown(c.Request().Context(), middleware.VisitorID(c), cc.Browser))
}

// Reset forgets the caller's visitor record
func (h *VisitorHandler) Reset(c echo.Context) error {
	h.tracker.Reset(c.Request().Context(), middleware.VisitorID(c))
	return c.NoContent(http.StatusNoContent)
}
