package transport

import (
	"github.com/labstack/echo/v4"
)

const (
	allowedMethods = "POST, OPTIONS"
	allowedHeaders = "Content-Type, X-Source"
)

// CORS emits the fixed cross-origin policy on every response, including
// errors and pre-flight, as the scheduling vendor's browser client requires.
func CORS(allowedOrigin string) echo.MiddlewareFunc {
	if allowedOrigin == "" {
		allowedOrigin = "*"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			header.Set(echo.HeaderAccessControlAllowOrigin, allowedOrigin)
			header.Set(echo.HeaderAccessControlAllowMethods, allowedMethods)
			header.Set(echo.HeaderAccessControlAllowHeaders, allowedHeaders)
			return next(c)
		}
	}
}
