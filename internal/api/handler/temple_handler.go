package handler

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/alayatales/temple-api/internal/api/metrics"
	"github.com/alayatales/temple-api/internal/core/domain"
	"github.com/alayatales/temple-api/internal/core/ports"
)

// TempleHandler handles HTTP requests for temple listings.
type TempleHandler struct {
	service  ports.TempleService
	maxFiles int
}

func NewTempleHandler(service ports.TempleService, maxFiles int) *TempleHandler {
	if maxFiles <= 0 {
		maxFiles = 5
	}
	return &TempleHandler{service: service, maxFiles: maxFiles}
}

// List handles GET /api/temples.
//
// @Summary      List temples
// @Tags         temples
// @Produce      json
// @Param        q    query     string  false  "Case-insensitive search on name, location and description"
// @Success      200  {array}   domain.Temple
// @Failure      500  {object}  errorResponse
// @Router       /api/temples [get]
func (h *TempleHandler) List(c echo.Context) error {
	temples, err := h.service.List(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, temples)
}

// Get handles GET /api/temples/:id.
//
// @Summary      Get a temple
// @Tags         temples
// @Produce      json
// @Param        id   path      string  true  "Temple id"
// @Success      200  {object}  domain.Temple
// @Failure      404  {object}  errorResponse
// @Router       /api/temples/{id} [get]
func (h *TempleHandler) Get(c echo.Context) error {
	temple, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, temple)
}

// Create handles POST /api/temples.
//
// @Summary      Create a temple
// @Tags         temples
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string  false  "Idempotency key to prevent duplicate submissions"
// @Param        name             formData  string  true   "Name"
// @Param        description      formData  string  true   "Description"
// @Param        location         formData  string  true   "Location"
// @Param        timings          formData  string  true   "JSON array of timings"
// @Param        images           formData  file    true   "Up to 5 images"
// @Success      201              {object}  domain.Temple
// @Success      200              {object}  domain.Temple  "Replayed idempotent request"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      403              {object}  errorResponse
// @Failure      409              {object}  errorResponse  "Idempotency-Key held by a request in progress"
// @Failure      413              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /api/temples [post]
func (h *TempleHandler) Create(c echo.Context) error {
	form, err := multipartForm(c)
	if err != nil {
		return err
	}

	var req createTempleForm
	req.Name, _ = formValue(form, fieldName)
	req.Description, _ = formValue(form, fieldDescription)
	req.Location, _ = formValue(form, fieldLocation)
	req.Timings, _ = formValue(form, fieldTimings)
	if err := c.Validate(&req); err != nil {
		return err
	}

	timings, err := parseTimings(req.Timings)
	if err != nil {
		return err
	}
	files := form.File[fieldImages]
	if err := h.checkFiles(len(files)); err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreateTempleInput{
		Name:           req.Name,
		Description:    req.Description,
		Location:       req.Location,
		Timings:        timings,
		Images:         toUploadedImages(files),
		IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return err
	}

	if result.Replayed {
		metrics.TempleMutationsTotal.WithLabelValues("replay").Inc()
		return c.JSON(http.StatusOK, result.Temple)
	}
	metrics.TempleMutationsTotal.WithLabelValues("create").Inc()
	metrics.ImagesUploadedTotal.Add(float64(len(files)))
	return c.JSON(http.StatusCreated, result.Temple)
}

// Update handles PUT /api/temples/:id. Omitted or empty fields keep their
// stored value; new images replace the old set.
//
// @Summary      Update a temple
// @Tags         temples
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true   "Temple id"
// @Param        name         formData  string  false  "Name"
// @Param        description  formData  string  false  "Description"
// @Param        location     formData  string  false  "Location"
// @Param        timings      formData  string  false  "JSON array of timings"
// @Param        images       formData  file    false  "Up to 5 replacement images"
// @Success      200          {object}  domain.Temple
// @Failure      400          {object}  errorResponse
// @Failure      401          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Failure      413          {object}  errorResponse
// @Router       /api/temples/{id} [put]
func (h *TempleHandler) Update(c echo.Context) error {
	form, err := multipartForm(c)
	if err != nil {
		return err
	}

	input := ports.UpdateTempleInput{
		ID:          c.Param("id"),
		Name:        optional(form, fieldName),
		Description: optional(form, fieldDescription),
		Location:    optional(form, fieldLocation),
	}
	if raw, ok := formValue(form, fieldTimings); ok && raw != "" {
		timings, err := parseTimings(raw)
		if err != nil {
			return err
		}
		input.Timings = timings
		input.SetTimings = true
	}

	files := form.File[fieldImages]
	if err := h.checkFiles(len(files)); err != nil {
		return err
	}
	input.Images = toUploadedImages(files)

	temple, err := h.service.Update(c.Request().Context(), input)
	if err != nil {
		return err
	}

	metrics.TempleMutationsTotal.WithLabelValues("update").Inc()
	metrics.ImagesUploadedTotal.Add(float64(len(files)))
	return c.JSON(http.StatusOK, temple)
}

// Delete handles DELETE /api/temples/:id.
//
// @Summary      Delete a temple
// @Tags         temples
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Temple id"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/temples/{id} [delete]
func (h *TempleHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.TempleMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Temple removed"})
}

func (h *TempleHandler) checkFiles(n int) error {
	if n > h.maxFiles {
		return fmt.Errorf("%w: at most %d images per request", domain.ErrValidation, h.maxFiles)
	}
	return nil
}

// multipartForm parses the request body. Errors raised while reading it, such
// as 413 from the body limit, keep their status; anything else is a 400.
func multipartForm(c echo.Context) (*multipart.Form, error) {
	form, err := c.MultipartForm()
	if err == nil {
		return form, nil
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return nil, he
	}
	return nil, echo.NewHTTPError(http.StatusBadRequest, "expected multipart/form-data body")
}
