package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

const adminPasswordHeader = "X-Admin-Password"

// AdminAuth returns Echo middleware that guards admin-scoped routes with a
// shared password carried in the X-Admin-Password header. When no password
// is configured the guard is disabled and all requests pass through.
func AdminAuth(password string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if password == "" {
				return next(c)
			}

			got := c.Request().Header.Get(adminPasswordHeader)
			if subtle.ConstantTimeCompare([]byte(got), []byte(password)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "unauthorized",
				})
			}

			return next(c)
		}
	}
}
