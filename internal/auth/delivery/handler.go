package delivery

import (
	"net/http"

	"caspometer-backend/internal/auth/authctx"
	authdto "caspometer-backend/internal/auth/dto"
	"caspometer-backend/internal/auth/usecase"
	"caspometer-backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and profile requests
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Register creates an account and returns it with a token
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.FromBinding(err))
		return
	}

	resp, err := h.authUsecase.Register(c.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.FromBinding(err))
		return
	}

	resp, err := h.authUsecase.Login(c.Request.Context(), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetProfile returns the caller's profile, re-read from the store
// GET /api/auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	profile, err := h.authUsecase.GetProfile(c.Request.Context(), authctx.UserID(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateProfile applies a partial profile update
// PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req authdto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.FromBinding(err))
		return
	}

	resp, err := h.authUsecase.UpdateProfile(c.Request.Context(), authctx.UserID(c), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
