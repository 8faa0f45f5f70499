package handler

import (
	"net/http"
	"path"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/alayatales/temple-api/internal/core/ports"
)

// ImageHandler streams uploaded images from a store that has no local file
// root. Disk-backed deployments use echo's static handler instead.
type ImageHandler struct {
	source ports.ImageSource
}

func NewImageHandler(source ports.ImageSource) *ImageHandler {
	return &ImageHandler{source: source}
}

// Serve handles GET /uploads/:name.
func (h *ImageHandler) Serve(c echo.Context) error {
	name := c.Param("name")
	if name == "" || name != path.Base(name) || name == "." || name == ".." {
		return echo.NewHTTPError(http.StatusNotFound, "image not found")
	}

	body, info, err := h.source.Open(c.Request().Context(), name)
	if err != nil {
		return err
	}
	defer body.Close()

	contentType := info.ContentType
	if contentType == "" {
		contentType = echo.MIMEOctetStream
	}
	if info.Size > 0 {
		c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(info.Size, 10))
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, contentType, body)
}
