package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "caspometer-backend/cmd/api"
	authdomain "caspometer-backend/internal/auth/domain"
	"caspometer-backend/internal/auth/password"
	authRepo "caspometer-backend/internal/auth/repository"
	"caspometer-backend/internal/auth/token"
	authUsecase "caspometer-backend/internal/auth/usecase"
	expensedomain "caspometer-backend/internal/expense/domain"
	expenseRepo "caspometer-backend/internal/expense/repository"
	"caspometer-backend/internal/expense/scheduler"
	expenseUsecase "caspometer-backend/internal/expense/usecase"
	exportUsecase "caspometer-backend/internal/export/usecase"
	"caspometer-backend/pkg/config"
	"caspometer-backend/pkg/database"
	"caspometer-backend/pkg/logger"
)

const connectTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{}, "caspometer-api").Fatal("invalid configuration", logger.Fields(logger.FieldError, err.Error()))
	}

	log := logger.New(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format}, "caspometer-api")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	db, err := database.NewPostgresConnection(connectCtx, cfg.Database, log)
	cancel()
	if err != nil {
		log.Fatal("failed to connect to database", logger.Fields(logger.FieldError, err.Error()))
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("failed to close database", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	// Auto-migrate database schemas
	if err := db.AutoMigrate(&authdomain.User{}, &expensedomain.Expense{}); err != nil {
		log.Fatal("failed to migrate database", logger.Fields(logger.FieldError, err.Error()))
	}

	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db, cfg.Database.QueryTimeout)
	expenseRepository := expenseRepo.NewGormExpenseRepository(db, cfg.Database.QueryTimeout)

	hasher := password.NewPool(password.NewBcryptHasher(cfg.Auth.BcryptCost), cfg.Auth.HashConcurrency)
	tokens, err := token.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiry)
	if err != nil {
		log.Fatal("failed to create token issuer", logger.Fields(logger.FieldError, err.Error()))
	}

	// Initialize usecases
	authUc := authUsecase.NewAuthUsecase(userRepo, hasher, tokens, log)
	expenseUc := expenseUsecase.NewExpenseUsecase(expenseRepository, userRepo)
	exportUc := exportUsecase.NewExportUsecase(expenseRepository, userRepo)

	alerts := scheduler.NewBudgetAlertScheduler(userRepo, expenseUc, cfg.BudgetAlertInterval, log)
	alerts.Start()
	defer alerts.Stop()

	handler := api.NewHandler(authUc, expenseUc, exportUc, db, cfg, log)
	if err := handler.Start(ctx, ":"+cfg.Port); err != nil {
		log.Error("server stopped", logger.Fields(logger.FieldError, err.Error()))
		return
	}
	log.Info("server stopped")
}
