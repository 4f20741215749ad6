package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/abdul977/muahibstores/internal/model"
	"github.com/abdul977/muahibstores/internal/visitor"
	"github.com/abdul977/muahibstores/internal/whatsapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submit(t *testing.T, s *testServer, visitorID, number string) *http.Response {
	t.Helper()
	rec := s.do(t, call{
		method:  http.MethodPost,
		path:    "/api/whatsapp-numbers",
		visitor: visitorID,
		header:  http.Header{"User-Agent": {"Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36"}},
		body: map[string]any{
			"whatsappNumber": number,
			"url":            "https://muahibstores.com/products/i20-ultra?utm_source=facebook",
			"referrer":       "https://facebook.com",
		},
	})
	return rec.Result()
}

func TestSubmitWhatsAppNumber(t *testing.T) {
	s := newTestServer(t)

	res := submit(t, s, "visitor-1", "0801 234 5678")
	require.Equal(t, http.StatusCreated, res.StatusCode)

	res = submit(t, s, "visitor-2", "+2348012345678")
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	res = submit(t, s, "visitor-3", "not a number")
	assert.Equal(t, http.StatusBadRequest, res.StatusCode)

	rec := s.do(t, call{method: http.MethodGet, path: "/api/admin/whatsapp-numbers", admin: true})
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[struct {
		Data  []model.WhatsAppNumber `json:"data"`
		Total int64                  `json:"total"`
	}](t, rec)
	require.Equal(t, int64(1), page.Total)

	row := page.Data[0]
	assert.Equal(t, "+2348012345678", row.WhatsAppNumber)
	assert.Equal(t, "/products/i20-ultra", row.SourcePage)
	assert.Equal(t, "https://facebook.com", row.Referrer)
	assert.Equal(t, visitor.DeviceMobile, row.DeviceType)
	require.NotNil(t, row.UTMSource)
	assert.Equal(t, "facebook", *row.UTMSource)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/visitor/popup?path=/", visitor: "visitor-1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[visitor.Decision](t, rec).Show)
}

func TestSubmitReturnsUserMessage(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, call{method: http.MethodPost, path: "/api/whatsapp-numbers", body: map[string]any{"whatsappNumber": "123"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, whatsapp.Result{Error: whatsapp.ErrInvalidNumber.Error()}, decode[whatsapp.Result](t, rec))
}

func TestWhatsAppAdminViews(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, submit(t, s, "a", "08012345678").StatusCode)
	require.Equal(t, http.StatusCreated, submit(t, s, "b", "09087654321").StatusCode)

	rec := s.do(t, call{method: http.MethodGet, path: "/api/admin/whatsapp-numbers?search=908&limit=10", admin: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":1`)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/admin/whatsapp-numbers?dateFrom=yesterday", admin: true})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/admin/whatsapp-numbers/stats", admin: true})
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[whatsapp.Stats](t, rec)
	assert.Equal(t, int64(2), stats.TotalNumbers)
	assert.Equal(t, int64(2), stats.TodayNumbers)
	assert.Equal(t, 100, stats.MobilePercentage)
	assert.Equal(t, []whatsapp.SourceCount{{Source: "/products/i20-ultra", Count: 2}}, stats.TopSources)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/admin/whatsapp-numbers/export", admin: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Regexp(t, `^attachment; filename="whatsapp-numbers-\d{4}-\d{2}-\d{2}\.csv"$`, rec.Header().Get("Content-Disposition"))
	lines := strings.Split(rec.Body.String(), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, whatsapp.CSVHeader, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"+2349087654321","+234","/products/i20-ultra","mobile","Yes","facebook"`))
}

func TestDeleteWhatsAppNumber(t *testing.T) {
	s := newTestServer(t)
	require.Equal(t, http.StatusCreated, submit(t, s, "a", "08012345678").StatusCode)

	rec := s.do(t, call{method: http.MethodGet, path: "/api/admin/whatsapp-numbers", admin: true})
	page := decode[struct {
		Data []model.WhatsAppNumber `json:"data"`
	}](t, rec)
	require.Len(t, page.Data, 1)
	path := "/api/admin/whatsapp-numbers/" + page.Data[0].ID.String()

	rec = s.do(t, call{method: http.MethodDelete, path: path, admin: true})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, call{method: http.MethodDelete, path: path, admin: true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
