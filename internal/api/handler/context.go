package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alayatales/temple-api/internal/api/middleware"
	"github.com/alayatales/temple-api/internal/core/domain"
)

// ctxClaims extracts the claims injected by the Authenticate middleware.
// A handler mounted without Authenticate gets a 401 instead of a nil
// dereference.
func ctxClaims(c echo.Context) (*domain.Claims, error) {
	claims := middleware.ClaimsFrom(c)
	if claims == nil || claims.UserID == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
