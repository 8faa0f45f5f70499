package ports

import (
	"context"

	"github.com/alayatales/temple-api/internal/core/domain"
)

// UserRepository persists credentials. Create must report domain.ErrUserExists
// when the username is taken.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	CountByRole(ctx context.Context, role string) (int64, error)
}
