package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("storefront")
	require.NoError(t, err)

	assert.Equal(t, "storefront", cfg.ServiceName)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "memory", cfg.Visitor.Store)
	assert.Equal(t, 30, cfg.Visitor.CooldownDays)
	assert.Equal(t, 2*time.Second, cfg.Visitor.PopupDelay)
	assert.Equal(t, int64(5*1024*1024), cfg.Storage.MaxImageBytes)
	assert.Equal(t, "+234", cfg.WhatsApp.DefaultCountryCode)
	assert.Equal(t, 24*time.Hour, cfg.WhatsApp.DuplicateWindow)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("VISITOR_STORE", "redis")
	t.Setenv("DB_LOG_LEVEL", "silent")
	t.Setenv("WHATSAPP_DUPLICATE_WINDOW", "1h")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example, https://admin.example ,")

	cfg, err := Load("storefront")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "redis", cfg.Visitor.Store)
	assert.Equal(t, logger.Silent, cfg.DB.LogLevel)
	assert.Equal(t, time.Hour, cfg.WhatsApp.DuplicateWindow)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.Server.AllowedOrigins)
	assert.Contains(t, cfg.Storage.PublicBaseURL, ":9090/")
}

func TestLoadRejectsUnknownDrivers(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")
	_, err := Load("storefront")
	assert.ErrorContains(t, err, "STORE_DRIVER")

	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("VISITOR_STORE", "localstorage")
	_, err = Load("storefront")
	assert.ErrorContains(t, err, "VISITOR_STORE")
}

func TestGetEnvAsIntFallsBack(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
	t.Setenv("SOME_INT", "12")
	assert.Equal(t, 12, getEnvAsInt("SOME_INT", 7))
}

func TestGetDSN(t *testing.T) {
	db := DBConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=shop sslmode=disable", db.GetDSN())
}
