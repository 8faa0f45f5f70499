package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/alayatales/temple-api/internal/api/metrics"
	"github.com/alayatales/temple-api/internal/core/domain"
	"github.com/alayatales/temple-api/internal/core/ports"
)

// ClaimsKey is the echo context key under which Authenticate stores the
// *domain.Claims of the caller.
const ClaimsKey = "claims"

// Authenticate validates the bearer token and injects the claims into the
// context. Any failure stops the request with 401.
func Authenticate(validator ports.TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return unauthorized("missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return unauthorized("invalid authorization header")
			}

			claims, err := validator.Validate(strings.TrimSpace(parts[1]))
			if err != nil {
				return unauthorized("invalid token")
			}

			c.Set(ClaimsKey, claims)
			return next(c)
		}
	}
}

// ClaimsFrom returns the claims stored by Authenticate, or nil.
func ClaimsFrom(c echo.Context) *domain.Claims {
	claims, _ := c.Get(ClaimsKey).(*domain.Claims)
	return claims
}

func unauthorized(msg string) error {
	metrics.AccessDeniedTotal.WithLabelValues("401").Inc()
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}
