package middleware

import (
	"net/http"
	"time"

	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

// NewRateLimiter allows perMinute requests per client IP with the given burst.
// Clients idle for ten minutes are forgotten. One limiter shares its buckets
// across every route it is mounted on.
func NewRateLimiter(perMinute, burst int) echo.MiddlewareFunc {
	if burst < 1 {
		burst = 1
	}
	store := echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     burst,
		ExpiresIn: limiterIdleTTL,
	})

	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			logger.FromEcho(c).Error("Failed to identify client for rate limiting", zap.Error(err))
			return c.JSON(http.StatusForbidden, map[string]string{"error": "Request rejected"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logger.FromEcho(c).Warn("Rate limit exceeded", zap.String("ip", identifier))
			return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "Too many requests. Please try again later."})
		},
	})
}
