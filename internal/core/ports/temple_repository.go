package ports

import (
	"context"

	"github.com/alayatales/temple-api/internal/core/domain"
)

// TempleRepository defines persistence operations for temples. Lookups by an
// id that is absent or not a valid document id return domain.ErrTempleNotFound.
type TempleRepository interface {
	Create(ctx context.Context, t *domain.Temple) (*domain.Temple, error)
	FindByID(ctx context.Context, id string) (*domain.Temple, error)
	// List returns every temple. A non-empty query restricts the result to
	// case-insensitive matches on name, location or description.
	List(ctx context.Context, query string) ([]*domain.Temple, error)
	// Replace overwrites the stored document with t (matched by t.ID).
	Replace(ctx context.Context, t *domain.Temple) (*domain.Temple, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// CountByLocation returns the top limit locations by number of temples.
	CountByLocation(ctx context.Context, limit int) ([]domain.LocationCount, error)
}

// IdempotencyStore remembers which temple a client-supplied Idempotency-Key
// produced. A key is claimed before the temple is created so concurrent
// requests with the same key cannot both insert.
type IdempotencyStore interface {
	// Claim reserves key. When the key is already held, claimed is false and
	// templeID is the temple it produced, or empty while the holder is still
	// creating it.
	Claim(ctx context.Context, key string) (templeID string, claimed bool, err error)
	// Complete records the temple created under a claimed key.
	Complete(ctx context.Context, key, templeID string) error
	// Release drops a claim whose create failed.
	Release(ctx context.Context, key string) error
}
