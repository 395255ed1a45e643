package middleware

import (
	"fmt"
	"runtime/debug"

	"caspometer-backend/pkg/apperrors"
	"caspometer-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery turns a handler panic into a 500 and logs the stack.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("recovery")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", r),
					"stack", string(debug.Stack()),
					logger.FieldMethod, c.Request.Method,
					logger.FieldPath, c.Request.URL.Path,
					logger.FieldRequestID, c.GetString(logger.FieldRequestID),
				))
				apperrors.Abort(c, apperrors.Internal(fmt.Errorf("panic: %v", r)))
			}
		}()
		c.Next()
	}
}
