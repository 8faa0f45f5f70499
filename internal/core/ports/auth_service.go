package ports

import (
	"context"

	"github.com/alayatales/temple-api/internal/core/domain"
)

// TokenValidator verifies a bearer token and returns the identity inside it.
type TokenValidator interface {
	Validate(token string) (*domain.Claims, error)
}

type AuthService interface {
	TokenValidator
	Register(ctx context.Context, username, password, role string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
}
