package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	authdomain "caspometer-backend/internal/auth/domain"
	authdto "caspometer-backend/internal/auth/dto"
	"caspometer-backend/internal/auth/password"
	"caspometer-backend/internal/auth/repository"
	"caspometer-backend/internal/auth/token"
	"caspometer-backend/internal/testutil"
	"caspometer-backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "usecase-test-secret-of-sufficient-length"

type fixture struct {
	uc     AuthUsecase
	repo   repository.UserRepository
	tokens *token.Issuer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := repository.NewUserRepository(testutil.NewDB(t, &authdomain.User{}), time.Second)
	tokens, err := token.NewIssuer(testSecret, token.DefaultTTL)
	require.NoError(t, err)
	pool := password.NewPool(password.NewBcryptHasher(bcrypt.MinCost), 4)
	return &fixture{
		uc:     NewAuthUsecase(repo, pool, tokens, nil),
		repo:   repo,
		tokens: tokens,
	}
}

func (f *fixture) register(t *testing.T, name, email, pw string) *authdto.AuthResponse {
	t.Helper()
	resp, err := f.uc.Register(context.Background(), &authdto.RegisterRequest{Name: name, Email: email, Password: pw})
	require.NoError(t, err)
	return resp
}

func TestRegister_StoresHashAndIssuesToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp := f.register(t, "Dana", "dana@example.com", "hunter22")

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Dana", resp.Name)
	assert.Equal(t, "dana@example.com", resp.Email)
	assert.Equal(t, authdomain.DefaultSettings(), resp.Settings)

	sub, err := f.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, sub)

	stored, err := f.repo.FindByID(ctx, resp.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "hunter22", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter22")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)

	f.register(t, "Dana", "dana@example.com", "hunter22")
	_, err := f.uc.Register(context.Background(), &authdto.RegisterRequest{
		Name: "Other", Email: "Dana@Example.com", Password: "different1",
	})

	assert.Equal(t, apperrors.CodeDuplicateEmail, apperrors.CodeOf(err))

	var count int
	err = f.repo.ForEach(context.Background(), 10, func(*authdomain.User) error {
		count++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRegister_ShortPassword(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Register(context.Background(), &authdto.RegisterRequest{
		Name: "Dana", Email: "dana@example.com", Password: "123",
	})
	assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "Dana", "dana@example.com", "hunter22")

	t.Run("correct credentials", func(t *testing.T) {
		resp, err := f.uc.Login(context.Background(), &authdto.LoginRequest{Email: "DANA@example.com", Password: "hunter22"})
		require.NoError(t, err)
		assert.Equal(t, reg.ID, resp.ID)

		sub, err := f.tokens.Verify(resp.Token)
		require.NoError(t, err)
		assert.Equal(t, reg.ID, sub)
	})

	t.Run("wrong password and unknown email are indistinguishable", func(t *testing.T) {
		_, wrongPw := f.uc.Login(context.Background(), &authdto.LoginRequest{Email: "dana@example.com", Password: "nope-nope"})
		_, unknown := f.uc.Login(context.Background(), &authdto.LoginRequest{Email: "ghost@example.com", Password: "hunter22"})

		require.Error(t, wrongPw)
		require.Error(t, unknown)
		a, b := apperrors.From(wrongPw), apperrors.From(unknown)
		assert.Equal(t, apperrors.CodeInvalidCredentials, a.Code)
		assert.Equal(t, a.Code, b.Code)
		assert.Equal(t, a.Message, b.Message)
		assert.Equal(t, a.HTTPStatus, b.HTTPStatus)
	})
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "Dana", "dana@example.com", "hunter22")

	id, err := f.uc.GetProfile(context.Background(), reg.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dana", id.Name)
	assert.Equal(t, authdomain.DefaultSettings(), id.Settings)

	_, err = f.uc.GetProfile(context.Background(), "missing")
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestUpdateProfile_NotificationFlagOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "Dana", "dana@example.com", "hunter22")

	off := false
	resp, err := f.uc.UpdateProfile(ctx, reg.ID, &authdto.UpdateProfileRequest{
		Settings: &authdto.SettingsRequest{
			Notifications: &authdto.NotificationsRequest{BudgetAlerts: &off},
		},
	})
	require.NoError(t, err)

	want := authdomain.DefaultSettings()
	want.Notifications.BudgetAlerts = false
	assert.Equal(t, want, resp.Settings)
	assert.Equal(t, "Dana", resp.Name)

	stored, err := f.uc.GetProfile(ctx, reg.ID)
	require.NoError(t, err)
	assert.Equal(t, want, stored.Settings)
}

func TestUpdateProfile_FieldsAndPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reg := f.register(t, "Dana", "dana@example.com", "hunter22")

	resp, err := f.uc.UpdateProfile(ctx, reg.ID, &authdto.UpdateProfileRequest{
		Name:     "Dana L",
		Email:    "dana.l@example.com",
		Password: "newsecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "Dana L", resp.Name)
	assert.Equal(t, "dana.l@example.com", resp.Email)

	sub, err := f.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, sub)

	_, err = f.uc.Login(ctx, &authdto.LoginRequest{Email: "dana.l@example.com", Password: "hunter22"})
	assert.Equal(t, apperrors.CodeInvalidCredentials, apperrors.CodeOf(err))
	_, err = f.uc.Login(ctx, &authdto.LoginRequest{Email: "dana.l@example.com", Password: "newsecret"})
	assert.NoError(t, err)
}

func TestUpdateProfile_EmptyFieldsUnchanged(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "Dana", "dana@example.com", "hunter22")

	resp, err := f.uc.UpdateProfile(context.Background(), reg.ID, &authdto.UpdateProfileRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Dana", resp.Name)
	assert.Equal(t, "dana@example.com", resp.Email)
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Other", "taken@example.com", "hunter22")
	reg := f.register(t, "Dana", "dana@example.com", "hunter22")

	_, err := f.uc.UpdateProfile(context.Background(), reg.ID, &authdto.UpdateProfileRequest{Email: "Taken@example.com"})
	assert.Equal(t, apperrors.CodeDuplicateEmail, apperrors.CodeOf(err))
}

func TestUpdateProfile_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.UpdateProfile(context.Background(), "missing", &authdto.UpdateProfileRequest{Name: "x"})
	assert.Equal(t, apperrors.CodeNotFound, apperrors.CodeOf(err))
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	reg := f.register(t, "Dana", "dana@example.com", "hunter22")

	id, err := f.uc.Authenticate(context.Background(), reg.Token)
	require.NoError(t, err)
	assert.Equal(t, reg.ID, id.ID)
	assert.Equal(t, "dana@example.com", id.Email)

	_, err = f.uc.Authenticate(context.Background(), "not-a-token")
	assert.Equal(t, apperrors.CodeInvalidToken, apperrors.CodeOf(err))

	orphan, err := f.tokens.Issue("deleted-user")
	require.NoError(t, err)
	_, err = f.uc.Authenticate(context.Background(), orphan)
	assert.Equal(t, apperrors.CodeInvalidToken, apperrors.CodeOf(err))
}

type failingRepo struct {
	repository.UserRepository
}

func (failingRepo) FindByEmail(context.Context, string) (*authdomain.User, error) {
	return nil, errors.New("connection refused")
}

func (failingRepo) FindByID(context.Context, string) (*authdomain.User, error) {
	return nil, errors.New("connection refused")
}

func TestStoreFailuresAreInternal(t *testing.T) {
	tokens, err := token.NewIssuer(testSecret, token.DefaultTTL)
	require.NoError(t, err)
	uc := NewAuthUsecase(failingRepo{}, password.NewPool(password.NewBcryptHasher(bcrypt.MinCost), 1), tokens, nil)
	ctx := context.Background()

	_, err = uc.Register(ctx, &authdto.RegisterRequest{Name: "a", Email: "a@example.com", Password: "hunter22"})
	assert.Equal(t, apperrors.CodeInternal, apperrors.CodeOf(err))

	_, err = uc.Login(ctx, &authdto.LoginRequest{Email: "a@example.com", Password: "hunter22"})
	assert.Equal(t, apperrors.CodeInternal, apperrors.CodeOf(err))

	tok, err := tokens.Issue("someone")
	require.NoError(t, err)
	_, err = uc.Authenticate(ctx, tok)
	assert.Equal(t, apperrors.CodeInternal, apperrors.CodeOf(err))
	assert.NotContains(t, apperrors.From(err).Message, "connection refused")
}
