package usecase

import (
	"context"
	"errors"
	"sync"

	authdomain "caspometer-backend/internal/auth/domain"
	authdto "caspometer-backend/internal/auth/dto"
	"caspometer-backend/internal/auth/password"
	"caspometer-backend/internal/auth/repository"
	"caspometer-backend/pkg/apperrors"
	"caspometer-backend/pkg/logger"
)

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	log      *logger.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, log *logger.Logger) AuthUsecase {
	if log == nil {
		log = logger.Nop()
	}
	return &authUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		tokens:   tokens,
		log:      log.WithComponent("auth"),
	}
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.AuthResponse, error) {
	if err := password.ValidatePolicy(req.Password); err != nil {
		return nil, apperrors.Validation(err.Error()).WithDetail("password", err.Error())
	}

	existing, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing != nil {
		return nil, apperrors.DuplicateEmail()
	}

	hashed, err := u.hasher.Hash(ctx, req.Password)
	if err != nil {
		return nil, u.hashError(err)
	}

	user := &authdomain.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Settings: authdomain.DefaultSettings(),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		// lost a race with a concurrent registration for the same email
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.DuplicateEmail()
		}
		return nil, apperrors.Internal(err)
	}

	u.log.Info("user registered", logger.Fields(logger.FieldUserID, user.ID))
	return u.respond(user)
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.AuthResponse, error) {
	user, err := u.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if user == nil {
		// unknown emails pay the same bcrypt cost as a wrong password
		if _, err := u.hasher.Verify(ctx, req.Password, u.timingHash()); err != nil {
			return nil, u.hashError(err)
		}
		return nil, apperrors.InvalidCredentials()
	}

	ok, err := u.hasher.Verify(ctx, req.Password, user.Password)
	if err != nil {
		return nil, u.hashError(err)
	}
	if !ok {
		return nil, apperrors.InvalidCredentials()
	}

	return u.respond(user)
}

func (u *authUsecase) GetProfile(ctx context.Context, userID string) (*authdomain.Identity, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}
	return user.Identity(), nil
}

func (u *authUsecase) UpdateProfile(ctx context.Context, userID string, req *authdto.UpdateProfileRequest) (*authdto.AuthResponse, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, apperrors.NotFound("user")
	}

	if req.Name != "" {
		user.Name = req.Name
	}

	if req.Email != "" && repository.NormalizeEmail(req.Email) != user.Email {
		other, err := u.userRepo.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		if other != nil && other.ID != user.ID {
			return nil, apperrors.DuplicateEmail()
		}
		user.Email = req.Email
	}

	if req.Password != "" {
		if err := password.ValidatePolicy(req.Password); err != nil {
			return nil, apperrors.Validation(err.Error()).WithDetail("password", err.Error())
		}
		hashed, err := u.hasher.Hash(ctx, req.Password)
		if err != nil {
			return nil, u.hashError(err)
		}
		user.Password = hashed
	}

	if req.Settings != nil {
		user.Settings.Apply(req.Settings.ToPatch())
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.DuplicateEmail()
		}
		return nil, apperrors.Internal(err)
	}

	u.log.Info("profile updated", logger.Fields(logger.FieldUserID, user.ID))
	return u.respond(user)
}

func (u *authUsecase) Authenticate(ctx context.Context, token string) (*authdomain.Identity, error) {
	subject, err := u.tokens.Verify(token)
	if err != nil {
		return nil, apperrors.InvalidToken().WithCause(err)
	}

	user, err := u.userRepo.FindByID(ctx, subject)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, apperrors.InvalidToken().WithCause(errors.New("token subject no longer exists"))
	}
	return user.Identity(), nil
}

func (u *authUsecase) respond(user *authdomain.User) (*authdto.AuthResponse, error) {
	tok, err := u.tokens.Issue(user.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return authdto.NewAuthResponse(user.Identity(), tok), nil
}

func (u *authUsecase) hashError(err error) error {
	if password.IsPolicyError(err) {
		return apperrors.Validation(err.Error()).WithDetail("password", err.Error())
	}
	return apperrors.Internal(err)
}

// timingHash lazily builds a throwaway hash with the configured cost. It is
// detached from the request context so a cancelled first caller cannot leave
// it empty.
func (u *authUsecase) timingHash() string {
	u.dummyOnce.Do(func() {
		h, err := u.hasher.Hash(context.Background(), "timing-equalizer-password")
		if err != nil {
			u.log.Warn("failed to build timing hash", logger.Fields(logger.FieldError, err))
			return
		}
		u.dummyHash = h
	})
	return u.dummyHash
}
