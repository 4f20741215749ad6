package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	visitorKey       = "visitor_id"
	visitorCookieAge = 365 * 24 * 60 * 60
)

var visitorIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// VisitorCookieMiddleware makes sure every request carries a visitor id cookie.
// Ids that are missing or malformed are replaced with a fresh uuid.
func VisitorCookieMiddleware(cookieName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var visitorID string
			if cookie, err := c.Cookie(cookieName); err == nil && visitorIDPattern.MatchString(cookie.Value) {
				visitorID = cookie.Value
			} else {
				visitorID = uuid.New().String()
				c.SetCookie(&http.Cookie{
					Name:     cookieName,
					Value:    visitorID,
					Path:     "/",
					MaxAge:   visitorCookieAge,
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(visitorKey, visitorID)
			return next(c)
		}
	}
}

// VisitorID returns the id set by VisitorCookieMiddleware
func VisitorID(c echo.Context) string {
	id, _ := c.Get(visitorKey).(string)
	return id
}
