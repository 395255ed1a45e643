package middleware

import (
	"time"

	"caspometer-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs each request once it completes, at a level chosen by
// status class. Errors attached with c.Error are included so internal
// causes reach the log even though clients only see a generic message.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/api/health" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := logger.Fields(
			logger.FieldMethod, c.Request.Method,
			logger.FieldPath, c.Request.URL.Path,
			"status", status,
			"latency", latency.String(),
			logger.FieldClientIP, c.ClientIP(),
			logger.FieldRequestID, c.GetString(logger.FieldRequestID),
		)
		if uid := c.GetString("userID"); uid != "" {
			fields[logger.FieldUserID] = uid
		}
		if len(c.Errors) > 0 {
			fields[logger.FieldError] = c.Errors.Last().Err
		}

		switch {
		case status >= 500:
			log.Error("request completed", fields)
		case status >= 400:
			log.Warn("request completed", fields)
		default:
			log.Info("request completed", fields)
		}
	}
}
