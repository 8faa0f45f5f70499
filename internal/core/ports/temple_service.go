package ports

import (
	"context"
	"io"

	"github.com/alayatales/temple-api/internal/core/domain"
)

// UploadedImage is one file received in a multipart request.
type UploadedImage struct {
	Filename    string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// CreateTempleInput carries everything needed to create a temple.
type CreateTempleInput struct {
	Name           string
	Description    string
	Location       string
	Timings        []domain.Timing
	Images         []UploadedImage
	IdempotencyKey string
}

// UpdateTempleInput carries a partial update. Nil pointers and an empty
// Images slice leave the stored value untouched.
type UpdateTempleInput struct {
	ID          string
	Name        *string
	Description *string
	Location    *string
	Timings     []domain.Timing
	SetTimings  bool
	Images      []UploadedImage
}

// CreateTempleResult wraps the created temple. Replayed is true when the
// Idempotency-Key matched an earlier create.
type CreateTempleResult struct {
	Temple   *domain.Temple
	Replayed bool
}

// TempleService defines the use-case operations on temples.
type TempleService interface {
	List(ctx context.Context, query string) ([]*domain.Temple, error)
	Get(ctx context.Context, id string) (*domain.Temple, error)
	Create(ctx context.Context, input CreateTempleInput) (*CreateTempleResult, error)
	Update(ctx context.Context, input UpdateTempleInput) (*domain.Temple, error)
	Delete(ctx context.Context, id string) error
}

// StatsService builds the admin dashboard summary.
type StatsService interface {
	Stats(ctx context.Context) (*domain.Stats, error)
}
