package usecase

import (
	"context"

	authdomain "caspometer-backend/internal/auth/domain"
	authdto "caspometer-backend/internal/auth/dto"
)

// AuthUsecase defines the interface for registration, login, profile
// management and bearer token resolution. Errors are *apperrors.AppError.
type AuthUsecase interface {
	Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.AuthResponse, error)

	// Login fails with the same error whether the email is unknown or the
	// password is wrong.
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.AuthResponse, error)

	GetProfile(ctx context.Context, userID string) (*authdomain.Identity, error)

	// UpdateProfile applies a partial update and issues a fresh token.
	UpdateProfile(ctx context.Context, userID string, req *authdto.UpdateProfileRequest) (*authdto.AuthResponse, error)

	// Authenticate verifies a bearer token and resolves it to the current
	// identity. Tokens for users that no longer exist are invalid.
	Authenticate(ctx context.Context, token string) (*authdomain.Identity, error)
}

// PasswordHasher is satisfied by *password.Pool.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, hash string) (bool, error)
}

// TokenIssuer is satisfied by *token.Issuer.
type TokenIssuer interface {
	Issue(subject string) (string, error)
	Verify(token string) (string, error)
}
