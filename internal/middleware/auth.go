package middleware

import (
	"net/http"
	"strings"

	"github.com/abdul977/muahibstores/pkg/jwtutil"
	"github.com/abdul977/muahibstores/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const adminKey = "admin"

// JWTAuthMiddleware creates a middleware that validates admin JWT tokens
func JWTAuthMiddleware(jwtUtil *jwtutil.JWTUtil) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				log.Warn("Missing authorization header")
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Missing authorization header"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn("Invalid authorization header format")
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid authorization header format"})
			}

			claims, err := jwtUtil.ValidateToken(parts[1])
			if err != nil {
				log.Warn("Invalid or expired token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
			}
			if claims.Role != "admin" {
				log.Warn("Token without admin role", zap.String("username", claims.Username))
				return c.JSON(http.StatusForbidden, map[string]string{"error": "Admin access required"})
			}

			c.Set(adminKey, claims)
			log.Debug("JWT token validated successfully", zap.String("username", claims.Username))

			return next(c)
		}
	}
}

// AdminFromContext returns the claims stored by JWTAuthMiddleware
func AdminFromContext(c echo.Context) (*jwtutil.AdminClaims, bool) {
	claims, ok := c.Get(adminKey).(*jwtutil.AdminClaims)
	return claims, ok
}
