package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authdomain "caspometer-backend/internal/auth/domain"
	"caspometer-backend/internal/auth/password"
	authRepo "caspometer-backend/internal/auth/repository"
	authUsecase "caspometer-backend/internal/auth/usecase"
	"caspometer-backend/internal/auth/token"
	expensedomain "caspometer-backend/internal/expense/domain"
	expenseRepo "caspometer-backend/internal/expense/repository"
	expenseUsecase "caspometer-backend/internal/expense/usecase"
	exportUsecase "caspometer-backend/internal/export/usecase"
	"caspometer-backend/internal/testutil"
	"caspometer-backend/pkg/apperrors"
	"caspometer-backend/pkg/config"
	"caspometer-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T, rateLimit int) *gin.Engine {
	t.Helper()
	db := testutil.NewDB(t, &authdomain.User{}, &expensedomain.Expense{})
	cfg := &config.Config{
		Environment:        config.EnvDevelopment,
		Auth:               config.AuthConfig{RateLimit: rateLimit},
		CORSAllowedOrigins: []string{"*"},
	}

	users := authRepo.NewUserRepository(db, time.Second)
	expenses := expenseRepo.NewGormExpenseRepository(db, time.Second)
	tokens, err := token.NewIssuer("router-test-secret-of-sufficient-length", token.DefaultTTL)
	require.NoError(t, err)
	pool := password.NewPool(password.NewBcryptHasher(bcrypt.MinCost), 4)

	authUc := authUsecase.NewAuthUsecase(users, pool, tokens, logger.Nop())
	h := NewHandler(authUc,
		expenseUsecase.NewExpenseUsecase(expenses, users),
		exportUsecase.NewExportUsecase(expenses, users),
		db, cfg, logger.Nop())
	return h.Router()
}

type client struct {
	t     *testing.T
	r     *gin.Engine
	token string
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	c.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type authBody struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Email    string              `json:"email"`
	Settings authdomain.Settings `json:"settings"`
	Token    string              `json:"token"`
}

func register(t *testing.T, r *gin.Engine, email string) *client {
	t.Helper()
	c := &client{t: t, r: r}
	w := c.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Dana", "email": email, "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	c.token = decode[authBody](t, w).Token
	return c
}

func TestAuthFlow(t *testing.T) {
	r := newTestRouter(t, 100)
	anon := &client{t: t, r: r}

	w := anon.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Dana", "email": "dana@example.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[authBody](t, w)
	assert.NotEmpty(t, reg.Token)
	assert.Equal(t, "dana@example.com", reg.Email)
	assert.NotContains(t, w.Body.String(), "hunter22")
	assert.NotContains(t, w.Body.String(), "password")

	w = anon.do(http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Dana", "email": "dana@example.com", "password": "hunter22",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.CodeDuplicateEmail, decode[apperrors.ErrorResponse](t, w).Error.Code)

	w = anon.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "dana@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	wrongPw := w.Body.String()
	w = anon.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "ghost@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, wrongPw, w.Body.String())

	w = anon.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "dana@example.com", "password": "hunter22"})
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[authBody](t, w)
	assert.Equal(t, reg.ID, login.ID)

	user := &client{t: t, r: r, token: login.Token}
	w = user.do(http.MethodGet, "/api/auth/profile", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := decode[authdomain.Identity](t, w)
	assert.Equal(t, reg.ID, profile.ID)
	assert.Equal(t, authdomain.DefaultSettings(), profile.Settings)

	w = user.do(http.MethodPut, "/api/auth/profile", map[string]any{
		"settings": map[string]any{"notifications": map[string]any{"budgetAlerts": false}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[authBody](t, w)
	assert.NotEmpty(t, updated.Token)
	want := authdomain.DefaultSettings()
	want.Notifications.BudgetAlerts = false
	assert.Equal(t, want, updated.Settings)
}

func TestRegisterValidation(t *testing.T) {
	r := newTestRouter(t, 100)
	anon := &client{t: t, r: r}

	w := anon.do(http.MethodPost, "/api/auth/register", map[string]string{"email": "not-an-email", "password": "123"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode[apperrors.ErrorResponse](t, w)
	assert.Equal(t, apperrors.CodeValidation, body.Error.Code)
	assert.Contains(t, body.Error.Details, "email")
	assert.Contains(t, body.Error.Details, "password")
	assert.Contains(t, body.Error.Details, "name")
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t, 100)
	anon := &client{t: t, r: r}

	for _, path := range []string{"/api/auth/profile", "/api/expenses", "/api/expenses/summary/monthly", "/api/export/user-data"} {
		w := anon.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, apperrors.CodeNoToken, decode[apperrors.ErrorResponse](t, w).Error.Code, path)
	}

	bad := &client{t: t, r: r, token: "not.a.token"}
	w := bad.do(http.MethodGet, "/api/auth/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, apperrors.CodeInvalidToken, decode[apperrors.ErrorResponse](t, w).Error.Code)
}

func TestExpensesAndExport(t *testing.T) {
	r := newTestRouter(t, 100)
	dana := register(t, r, "dana@example.com")
	noa := register(t, r, "noa@example.com")

	w := dana.do(http.MethodGet, "/api/export/expenses-csv", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = dana.do(http.MethodPost, "/api/expenses", map[string]any{
		"amount": 42.5, "description": `Pizza "large"`, "category": "מזון", "date": "2024-03-10",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[expensedomain.Expense](t, w)

	w = noa.do(http.MethodGet, "/api/expenses/"+created.ID, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = noa.do(http.MethodGet, "/api/expenses", nil)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = dana.do(http.MethodGet, "/api/export/expenses-csv", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "expenses.csv")
	assert.Equal(t, "Date,Amount,Description,Category,PaymentMethod\n2024-03-10,42.5,\"Pizza \"\"large\"\"\",מזון,אשראי\n", w.Body.String())

	w = dana.do(http.MethodGet, "/api/export/user-data", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "user-data.json")
	export := decode[struct {
		User struct {
			Email string `json:"email"`
		} `json:"user"`
		Expenses []expensedomain.Expense `json:"expenses"`
	}](t, w)
	assert.Equal(t, "dana@example.com", export.User.Email)
	require.Len(t, export.Expenses, 1)
	assert.NotContains(t, w.Body.String(), "hunter22")

	w = dana.do(http.MethodGet, "/api/expenses/summary/budgets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	report := decode[expensedomain.BudgetReport](t, w)
	assert.Len(t, report.Categories, len(authdomain.DefaultBudgets()))
}

func TestAuthRateLimit(t *testing.T) {
	r := newTestRouter(t, 2)
	anon := &client{t: t, r: r}

	creds := map[string]string{"email": "x@example.com", "password": "whatever1"}
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/api/auth/login", creds).Code)
	assert.Equal(t, http.StatusUnauthorized, anon.do(http.MethodPost, "/api/auth/login", creds).Code)
	w := anon.do(http.MethodPost, "/api/auth/login", creds)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestHealthAndNoRoute(t *testing.T) {
	r := newTestRouter(t, 100)
	anon := &client{t: t, r: r}

	w := anon.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = anon.do(http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
