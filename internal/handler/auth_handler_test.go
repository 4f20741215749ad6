package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/abdul977/muahibstores/pkg/config"
	"github.com/abdul977/muahibstores/pkg/jwtutil"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLogin(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name     string
		username string
		password string
		status   int
	}{
		{"wrong password", "admin", "nope", http.StatusUnauthorized},
		{"wrong username", "root", "admin123", http.StatusUnauthorized},
		{"valid", "admin", "admin123", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, call{method: http.MethodPost, path: "/api/admin/auth/login", body: loginRequest{
				Username: tt.username,
				Password: tt.password,
			}})
			require.Equal(t, tt.status, rec.Code)
			if tt.status != http.StatusOK {
				return
			}

			body := decode[struct {
				Token     string `json:"token"`
				TokenType string `json:"token_type"`
			}](t, rec)
			assert.Equal(t, "Bearer", body.TokenType)

			s.token = body.Token
			rec = s.do(t, call{method: http.MethodGet, path: "/api/admin/products", admin: true})
			assert.Equal(t, http.StatusOK, rec.Code)
		})
	}
}

func TestNewAuthHandlerPrefersConfiguredHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	h, err := NewAuthHandler(&config.AdminConfig{
		Username:     "owner",
		Password:     "ignored",
		PasswordHash: string(hash),
	}, jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "k", ExpirationHours: 1}))
	require.NoError(t, err)

	assert.NoError(t, bcrypt.CompareHashAndPassword(h.passwordHash, []byte("s3cret")))
	assert.Error(t, bcrypt.CompareHashAndPassword(h.passwordHash, []byte("ignored")))
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, call{method: http.MethodGet, path: "/health"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"storefront"}`, rec.Body.String())
}

func TestHealthCheckReportsFailingDependency(t *testing.T) {
	h := NewHealthHandler("storefront", map[string]Check{
		"database": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("connection refused") },
	})

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)
	require.NoError(t, h.HealthCheck(c))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{
		"status": "unhealthy",
		"service": "storefront",
		"dependencies": {"database": "ok", "redis": "connection refused"}
	}`, rec.Body.String())
}
