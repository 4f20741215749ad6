package handler

import (
	"net/http"
	"strings"
	"testing"

	"github.com/abdul977/muahibstores/internal/catalog"
	"github.com/abdul977/muahibstores/internal/whatsapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCatalogue(t *testing.T, s *testServer) {
	t.Helper()

	earbuds := sampleProduct("i20-ultra", "i20 Ultra Earbuds", "Audio")
	earbuds.IsFeatured = true
	seedProduct(t, s, earbuds)

	seedProduct(t, s, sampleProduct("mvp110", "MVP110 Speaker", "Audio"))

	watch := sampleProduct("smart-watch", "Smart Watch", "Wearables")
	watch.IsHidden = true
	watch.Features = []string{"Heart rate"}
	seedProduct(t, s, watch)
}

func productIDs(products []catalog.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func TestListProducts(t *testing.T) {
	s := newTestServer(t)
	seedCatalogue(t, s)

	tests := []struct {
		name   string
		query  string
		status int
		want   []string
	}{
		{"visible only", "", http.StatusOK, []string{"mvp110", "i20-ultra"}},
		{"by category", "?category=Wearables", http.StatusOK, []string{}},
		{"featured", "?featured=true", http.StatusOK, []string{"i20-ultra"}},
		{"search by name", "?q=speaker", http.StatusOK, []string{"mvp110"}},
		{"search by whole feature", "?q=anc", http.StatusOK, []string{"mvp110", "i20-ultra"}},
		{"bad featured flag", "?featured=maybe", http.StatusBadRequest, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, call{method: http.MethodGet, path: "/api/products" + tt.query})
			require.Equal(t, tt.status, rec.Code)
			if tt.want != nil {
				assert.Equal(t, tt.want, productIDs(decode[[]catalog.Product](t, rec)))
			}
		})
	}
}

func TestGetProductHidesHiddenProducts(t *testing.T) {
	s := newTestServer(t)
	seedCatalogue(t, s)

	rec := s.do(t, call{method: http.MethodGet, path: "/api/products/i20-ultra"})
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[catalog.Product](t, rec)
	assert.Equal(t, "i20 Ultra Earbuds", p.Name)
	assert.Equal(t, "https://cdn.example.com/i20-ultra.jpg", p.Image)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/products/smart-watch"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/products/missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/admin/products/smart-watch", admin: true})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductInquiryAndQRCode(t *testing.T) {
	s := newTestServer(t)
	seedCatalogue(t, s)

	rec := s.do(t, call{method: http.MethodGet, path: "/api/products/mvp110/inquiry"})
	require.Equal(t, http.StatusOK, rec.Code)
	inq := decode[whatsapp.Inquiry](t, rec)
	assert.Equal(t, "mvp110", inq.ProductID)
	assert.Contains(t, inq.Message, "Item: MVP110 Speaker")
	assert.Contains(t, inq.Message, "Price: ₦15,000.00")
	assert.True(t, strings.HasPrefix(inq.Link, "https://wa.me/2348144493361?text="))

	rec = s.do(t, call{method: http.MethodGet, path: "/api/products/mvp110/qr"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "\x89PNG"))

	rec = s.do(t, call{method: http.MethodGet, path: "/api/products/smart-watch/qr"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListCategories(t *testing.T) {
	s := newTestServer(t)
	seedCatalogue(t, s)

	rec := s.do(t, call{method: http.MethodGet, path: "/api/categories"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Audio"}, decode[[]string](t, rec))

	rec = s.do(t, call{method: http.MethodGet, path: "/api/admin/categories", admin: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Audio", "Wearables"}, decode[[]string](t, rec))
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/admin/products", "/api/admin/stats", "/api/admin/whatsapp-numbers"} {
		rec := s.do(t, call{method: http.MethodGet, path: path})
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAdminCreateProduct(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, call{method: http.MethodPost, path: "/api/admin/products", admin: true, body: map[string]any{
		"price": 0,
	}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[struct {
		Errors map[string]string `json:"errors"`
	}](t, rec)
	assert.Equal(t, "Product name is required", body.Errors["name"])
	assert.Equal(t, "Price must be greater than 0", body.Errors["price"])
	assert.Equal(t, "At least one product image is required", body.Errors["media"])

	p := sampleProduct("", "Power Bank 20000mAh", "Accessories")
	rec = s.do(t, call{method: http.MethodPost, path: "/api/admin/products", admin: true, body: p})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[catalog.Product](t, rec)
	assert.Regexp(t, `^power-bank-20000mah-[0-9a-f]{8}$`, created.ID)

	p.ID = created.ID
	rec = s.do(t, call{method: http.MethodPost, path: "/api/admin/products", admin: true, body: p})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAdminUpdateProduct(t *testing.T) {
	s := newTestServer(t)
	seedCatalogue(t, s)

	rec := s.do(t, call{method: http.MethodPut, path: "/api/admin/products/mvp110", admin: true, body: map[string]any{
		"price":       12500,
		"description": "Portable speaker",
	}})
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[catalog.Product](t, rec)
	assert.Equal(t, "mvp110", p.ID)
	assert.Equal(t, 12500.0, p.Price)
	assert.Equal(t, "Portable speaker", p.Description)
	assert.Equal(t, "MVP110 Speaker", p.Name)

	rec = s.do(t, call{method: http.MethodPut, path: "/api/admin/products/mvp110", admin: true, body: map[string]any{
		"originalPrice": 100,
	}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, call{method: http.MethodPut, path: "/api/admin/products/missing", admin: true, body: map[string]any{"name": "x"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminVisibilityAndDelete(t *testing.T) {
	s := newTestServer(t)
	seedCatalogue(t, s)

	rec := s.do(t, call{method: http.MethodPatch, path: "/api/admin/products/mvp110/visibility", admin: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[catalog.Product](t, rec).IsHidden)

	rec = s.do(t, call{method: http.MethodPost, path: "/api/admin/products/visibility", admin: true, body: bulkVisibilityRequest{}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, call{method: http.MethodPost, path: "/api/admin/products/visibility", admin: true, body: bulkVisibilityRequest{
		IDs:    []string{"mvp110", "smart-watch"},
		Hidden: false,
	}})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/products"})
	assert.Equal(t, []string{"smart-watch", "mvp110", "i20-ultra"}, productIDs(decode[[]catalog.Product](t, rec)))

	rec = s.do(t, call{method: http.MethodDelete, path: "/api/admin/products/mvp110", admin: true})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, call{method: http.MethodDelete, path: "/api/admin/products/mvp110", admin: true})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, call{method: http.MethodGet, path: "/api/admin/stats", admin: true})
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode[catalog.Stats](t, rec)
	assert.Equal(t, 2, stats.TotalProducts)
	assert.Equal(t, 0, stats.HiddenProducts)
	assert.Equal(t, 2, stats.TotalImages)
}
