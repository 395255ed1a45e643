package delivery

import (
	"strings"

	"caspometer-backend/internal/auth/authctx"
	"caspometer-backend/internal/auth/usecase"
	"caspometer-backend/pkg/apperrors"
	"caspometer-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware rejects the request unless it carries a valid bearer token
// for an existing user. On success the identity is attached via authctx.
// Nothing after it in the chain runs for a rejected request.
func AuthMiddleware(authUsecase usecase.AuthUsecase, log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("auth-gate")

	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			reject(c, log, apperrors.NoToken(), "missing or malformed authorization header")
			return
		}

		identity, err := authUsecase.Authenticate(c.Request.Context(), token)
		if err != nil {
			appErr := apperrors.From(err)
			reason := appErr.Message
			if appErr.Cause != nil {
				reason = appErr.Cause.Error()
			}
			reject(c, log, appErr, reason)
			return
		}

		authctx.Set(c, identity)
		log.Debug("request authenticated", logger.Fields(
			logger.FieldUserID, identity.ID,
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, c.FullPath(),
		))
		c.Next()
	}
}

func reject(c *gin.Context, log *logger.Logger, err *apperrors.AppError, reason string) {
	log.Warn("request rejected", logger.Fields(
		logger.FieldReason, reason,
		"code", string(err.Code),
		logger.FieldMethod, c.Request.Method,
		logger.FieldPath, c.Request.URL.Path,
		logger.FieldClientIP, c.ClientIP(),
	))
	apperrors.Abort(c, err)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
