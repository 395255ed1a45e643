package api

import (
	"context"
	"net/http"
	"time"

	"caspometer-backend/internal/auth/delivery"
	authUsecase "caspometer-backend/internal/auth/usecase"
	expenseDelivery "caspometer-backend/internal/expense/delivery"
	exportDelivery "caspometer-backend/internal/export/delivery"
	"caspometer-backend/pkg/database"
	"caspometer-backend/pkg/logger"
	"caspometer-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, authUc authUsecase.AuthUsecase, db *gorm.DB, authRateLimit int, log *logger.Logger, expenseHandler *expenseDelivery.ExpenseHandler, exportHandler *exportDelivery.ExportHandler) {
	authHandler := delivery.NewAuthHandler(authUc)
	requireAuth := delivery.AuthMiddleware(authUc, log)
	limiter := middleware.NewRateLimiter(authRateLimit)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := database.Ping(ctx, db); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", limiter.Middleware(), authHandler.Register)
			auth.POST("/login", limiter.Middleware(), authHandler.Login)
			auth.GET("/profile", requireAuth, authHandler.GetProfile)
			auth.PUT("/profile", requireAuth, authHandler.UpdateProfile)
		}

		// Expense routes (protected)
		expenseHandler.RegisterRoutes(api.Group("/expenses", requireAuth))

		// Export routes (protected)
		exportHandler.RegisterRoutes(api.Group("/export", requireAuth))
	}
}
