package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/alayatales/temple-api/internal/core/domain"
	"github.com/alayatales/temple-api/internal/core/ports"
)

// Multipart field names.
const (
	fieldName        = "name"
	fieldDescription = "description"
	fieldLocation    = "location"
	fieldTimings     = "timings"
	fieldImages      = "images"
)

// createTempleForm holds the text parts of a create request. Timings arrive
// as a JSON-encoded array.
type createTempleForm struct {
	Name        string `form:"name"        validate:"notblank"`
	Description string `form:"description" validate:"notblank"`
	Location    string `form:"location"    validate:"notblank"`
	Timings     string `form:"timings"     validate:"required"`
}

// formValue returns the first value of a multipart field and whether the
// field was sent at all.
func formValue(form *multipart.Form, key string) (string, bool) {
	vals, ok := form.Value[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func parseTimings(raw string) ([]domain.Timing, error) {
	var timings []domain.Timing
	if err := json.Unmarshal([]byte(raw), &timings); err != nil {
		return nil, fmt.Errorf("%w: timings must be a JSON array of opening windows", domain.ErrValidation)
	}
	if len(timings) == 0 {
		return nil, fmt.Errorf("%w: at least one timing is required", domain.ErrValidation)
	}
	return timings, nil
}

func toUploadedImages(files []*multipart.FileHeader) []ports.UploadedImage {
	out := make([]ports.UploadedImage, 0, len(files))
	for _, fh := range files {
		out = append(out, ports.UploadedImage{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Open: func() (io.ReadCloser, error) {
				return fh.Open()
			},
		})
	}
	return out
}

func optional(form *multipart.Form, key string) *string {
	v, ok := formValue(form, key)
	if !ok {
		return nil
	}
	return &v
}
