package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alayatales/temple-api/internal/core/ports"
)

// AdminHandler serves the admin dashboard endpoints.
type AdminHandler struct {
	stats ports.StatsService
	users ports.AuthService
}

func NewAdminHandler(stats ports.StatsService, users ports.AuthService) *AdminHandler {
	return &AdminHandler{stats: stats, users: users}
}

// Stats handles GET /api/admin/stats.
//
// @Summary      Dashboard summary
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Stats
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	stats, err := h.stats.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Users handles GET /api/admin/users.
//
// @Summary      List users
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) Users(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}
