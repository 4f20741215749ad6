package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/abdul977/muahibstores/internal/middleware"
	"github.com/abdul977/muahibstores/internal/repository"
	"github.com/abdul977/muahibstores/internal/whatsapp"
	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// WhatsAppHandler serves the popup submission and the admin lead views
type WhatsAppHandler struct {
	svc *whatsapp.Service
	now func() time.Time
}

// NewWhatsAppHandler creates a WhatsApp handler
func NewWhatsAppHandler(svc *whatsapp.Service) *WhatsAppHandler {
	return &WhatsAppHandler{svc: svc, now: time.Now}
}

type submitRequest struct {
	clientContext
	whatsapp.Submission
}

// Submit handles the popup form
func (h *WhatsAppHandler) Submit(c echo.Context) error {
	var req submitRequest
	if err := c.Bind(&req); err != nil {
		logger.FromEcho(c).Warn("Invalid submission", zap.Error(err))
		return c.JSON(http.StatusBadRequest, whatsapp.Result{Error: "Invalid request data"})
	}

	res := h.svc.Submit(c.Request().Context(), req.Submission, whatsapp.Visit{
		VisitorID: middleware.VisitorID(c),
		Browser:   browserFrom(c, req.Browser),
		Page:      pageFrom(c, req.clientContext),
		IPAddress: c.RealIP(),
	})

	switch {
	case res.Success:
		return c.JSON(http.StatusCreated, res)
	case res.Error == whatsapp.MsgDuplicate:
		return c.JSON(http.StatusConflict, res)
	case res.Error == whatsapp.ErrInvalidNumber.Error():
		return c.JSON(http.StatusBadRequest, res)
	default:
		return c.JSON(http.StatusInternalServerError, res)
	}
}

// List returns a page of captured numbers with the total matching count
func (h *WhatsAppHandler) List(c echo.Context) error {
	f, err := filtersFrom(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	rows, total, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		logger.FromEcho(c).Error("Failed to list WhatsApp numbers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgTryAgain})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows, "total": total})
}

// Stats returns the dashboard counters
func (h *WhatsAppHandler) Stats(c echo.Context) error {
	stats, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		logger.FromEcho(c).Error("Failed to compute WhatsApp stats", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgTryAgain})
	}
	return c.JSON(http.StatusOK, stats)
}

// Export downloads the filtered numbers as CSV
func (h *WhatsAppHandler) Export(c echo.Context) error {
	f, err := filtersFrom(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	csv, err := h.svc.Export(c.Request().Context(), f)
	if err != nil {
		logger.FromEcho(c).Error("Failed to export WhatsApp numbers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgTryAgain})
	}

	filename := fmt.Sprintf("whatsapp-numbers-%s.csv", h.now().Format(time.DateOnly))
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", []byte(csv))
}

// Delete removes one captured number
func (h *WhatsAppHandler) Delete(c echo.Context) error {
	id := c.Param("id")
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, whatsapp.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Entry not found"})
		}
		logger.FromEcho(c).Error("Failed to delete WhatsApp number", zap.String("id", id), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msgTryAgain})
	}
	return c.NoContent(http.StatusNoContent)
}

// filtersFrom reads dateFrom, dateTo, sourcePage, deviceType, search, limit and offset.
// Dates are RFC 3339 or YYYY-MM-DD; a bare dateTo covers the whole day.
func filtersFrom(c echo.Context) (repository.WhatsAppFilters, error) {
	f := repository.WhatsAppFilters{
		SourcePage: c.QueryParam("sourcePage"),
		DeviceType: c.QueryParam("deviceType"),
		Search:     c.QueryParam("search"),
	}

	var err error
	if f.DateFrom, err = parseDate(c.QueryParam("dateFrom"), false); err != nil {
		return f, fmt.Errorf("invalid dateFrom: %w", err)
	}
	if f.DateTo, err = parseDate(c.QueryParam("dateTo"), true); err != nil {
		return f, fmt.Errorf("invalid dateTo: %w", err)
	}
	if f.Limit, err = parseCount(c.QueryParam("limit")); err != nil {
		return f, fmt.Errorf("invalid limit: %w", err)
	}
	if f.Offset, err = parseCount(c.QueryParam("offset")); err != nil {
		return f, fmt.Errorf("invalid offset: %w", err)
	}
	return f, nil
}

func parseDate(value string, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value, time.Local)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}

func parseCount(value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, errors.New("must not be negative")
	}
	return n, nil
}
