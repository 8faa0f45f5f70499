package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers wrap these with fmt.Errorf("...: %w") to add detail;
// the HTTP layer maps each kind to exactly one status code.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
	ErrConflict     = errors.New("already exists")
)

var (
	ErrTempleNotFound     = fmt.Errorf("temple %w", ErrNotFound)
	ErrUserNotFound       = fmt.Errorf("user %w", ErrNotFound)
	ErrUserExists         = fmt.Errorf("username %w", ErrConflict)
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("invalid token: %w", ErrUnauthorized)
)
