package repository

import (
	"context"
	"errors"

	authdomain "caspometer-backend/internal/auth/domain"
)

// ErrDuplicateEmail is returned when the unique email index rejects a write.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the interface for user data access.
// Find methods return (nil, nil) when no record matches.
type UserRepository interface {
	Create(ctx context.Context, user *authdomain.User) error
	FindByEmail(ctx context.Context, email string) (*authdomain.User, error)
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
	Update(ctx context.Context, user *authdomain.User) error

	// ForEach walks every user in batches. Returning an error from fn stops the walk.
	ForEach(ctx context.Context, batchSize int, fn func(*authdomain.User) error) error
}
