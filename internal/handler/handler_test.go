package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abdul977/muahibstores/internal/catalog"
	"github.com/abdul977/muahibstores/internal/media"
	"github.com/abdul977/muahibstores/internal/middleware"
	"github.com/abdul977/muahibstores/internal/repository"
	"github.com/abdul977/muahibstores/internal/storage"
	"github.com/abdul977/muahibstores/internal/visitor"
	"github.com/abdul977/muahibstores/internal/whatsapp"
	"github.com/abdul977/muahibstores/pkg/config"
	"github.com/abdul977/muahibstores/pkg/jwtutil"
	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const (
	testCookie    = "visitor"
	testPublicURL = "http://localhost:8080/storage/v1/object/public"
)

type testServer struct {
	e        *echo.Echo
	token    string
	catalog  *catalog.Service
	products *repository.MemoryProductRepository
	numbers  *repository.MemoryWhatsAppRepository
	store    *storage.MediaStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	products := repository.NewMemoryProductRepository()
	numbers := repository.NewMemoryWhatsAppRepository()

	root := t.TempDir()
	images, err := storage.NewLocalBucket(root, storage.BucketProductImages, testPublicURL)
	require.NoError(t, err)
	videos, err := storage.NewLocalBucket(root, storage.BucketVideos, testPublicURL)
	require.NoError(t, err)
	store := storage.NewMediaStore(images, videos, &config.StorageConfig{
		MaxImageBytes: 5 << 20,
		MaxVideoBytes: 50 << 20,
	})

	catalogSvc := catalog.NewService(products, store)
	tracker := visitor.NewTracker(visitor.NewMemoryStore(), 30, 2*time.Second)
	whatsappSvc := whatsapp.NewService(numbers, tracker, &config.WhatsAppConfig{
		BusinessNumber:     "2348144493361",
		DefaultCountryCode: "+234",
		DuplicateWindow:    24 * time.Hour,
	})

	jwt := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})
	auth, err := NewAuthHandler(&config.AdminConfig{Username: "admin", Password: "admin123"}, jwt)
	require.NoError(t, err)

	e := echo.New()
	log := zaptest.NewLogger(t)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			logger.SetEcho(c, log)
			return next(c)
		}
	})

	routes := &Routes{
		Health:        NewHealthHandler("storefront", nil),
		Products:      NewProductHandler(catalogSvc, whatsappSvc),
		Media:         NewMediaHandler(store),
		Visitors:      NewVisitorHandler(tracker),
		WhatsApp:      NewWhatsAppHandler(whatsappSvc),
		Auth:          auth,
		JWT:           jwt,
		Limiter:       middleware.NewRateLimiter(600, 100),
		VisitorCookie: testCookie,
	}
	routes.Register(e)

	token, _, err := jwt.GenerateToken("admin")
	require.NoError(t, err)

	return &testServer{
		e:        e,
		token:    token,
		catalog:  catalogSvc,
		products: products,
		numbers:  numbers,
		store:    store,
	}
}

type call struct {
	method      string
	path        string
	body        any
	admin       bool
	visitor     string
	contentType string
	raw         []byte
	header      http.Header
}

func (s *testServer) do(t *testing.T, c call) *httptest.ResponseRecorder {
	t.Helper()

	var body []byte
	contentType := c.contentType
	switch {
	case c.raw != nil:
		body = c.raw
	case c.body != nil:
		var err error
		body, err = json.Marshal(c.body)
		require.NoError(t, err)
		contentType = echo.MIMEApplicationJSON
	}

	req := httptest.NewRequest(c.method, c.path, bytes.NewReader(body))
	if len(body) == 0 {
		req = httptest.NewRequest(c.method, c.path, nil)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if c.admin {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+s.token)
	}
	if c.visitor != "" {
		req.AddCookie(&http.Cookie{Name: testCookie, Value: c.visitor})
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func sampleProduct(id, name, category string) catalog.Product {
	return catalog.Product{
		ID:           id,
		Name:         name,
		Price:        15000,
		Category:     category,
		Features:     []string{"Bluetooth 5.3", "ANC"},
		WhatsAppLink: "https://wa.me/2348144493361",
		Media:        &media.Legacy{Images: []string{"https://cdn.example.com/" + id + ".jpg"}},
	}
}

func seedProduct(t *testing.T, s *testServer, p catalog.Product) {
	t.Helper()
	_, err := s.catalog.CreateProduct(context.Background(), p)
	require.NoError(t, err)
}
