package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/husbandvitamins/bookaconsult/internal/shared/auth"
)

// RequireToken guards the webhook with the scheduling vendor's signed token.
// Pre-flight requests pass through so the CORS contract is unaffected.
func RequireToken(validator auth.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method == http.MethodOptions {
				return next(c)
			}
			token := auth.ExtractBearerToken(c.Request())
			claims, err := validator.Validate(token)
			if err != nil {
				slog.Warn("webhook auth rejected",
					slog.String("source", c.Request().Header.Get("X-Source")),
					slog.Any("error", err),
				)
				return c.JSON(http.StatusUnauthorized, errorResponse{
					Error:     "unauthorized",
					Message:   "a valid bearer token is required",
					Timestamp: time.Now().UTC().Format(time.RFC3339),
				})
			}
			c.Set("webhook_subject", claims.Subject)
			return next(c)
		}
	}
}
