package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	authUsecase "caspometer-backend/internal/auth/usecase"
	expenseDelivery "caspometer-backend/internal/expense/delivery"
	expenseUsecasePkg "caspometer-backend/internal/expense/usecase"
	exportDelivery "caspometer-backend/internal/export/delivery"
	exportUsecasePkg "caspometer-backend/internal/export/usecase"
	"caspometer-backend/pkg/apperrors"
	"caspometer-backend/pkg/config"
	"caspometer-backend/pkg/logger"
	"caspometer-backend/pkg/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const shutdownTimeout = 15 * time.Second

type Handler struct {
	authUsecase    authUsecase.AuthUsecase
	expenseHandler *expenseDelivery.ExpenseHandler
	exportHandler  *exportDelivery.ExportHandler
	db             *gorm.DB
	config         *config.Config
	log            *logger.Logger
}

func NewHandler(authUc authUsecase.AuthUsecase, expenseUc expenseUsecasePkg.ExpenseUsecase, exportUc exportUsecasePkg.ExportUsecase, db *gorm.DB, cfg *config.Config, log *logger.Logger) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	return &Handler{
		authUsecase:    authUc,
		expenseHandler: expenseDelivery.NewExpenseHandler(expenseUc),
		exportHandler:  exportDelivery.NewExportHandler(exportUc),
		db:             db,
		config:         cfg,
		log:            log,
	}
}

// Router builds the gin engine with the full middleware chain and all routes.
func (h *Handler) Router() *gin.Engine {
	if h.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	apperrors.RegisterJSONFieldNames()

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Recovery(h.log),
		middleware.RequestLogger(h.log),
		middleware.CORS(h.config.CORSAllowedOrigins),
	)
	r.NoRoute(func(c *gin.Context) {
		apperrors.Respond(c, apperrors.NotFound("route"))
	})

	SetupRoutes(r, h.authUsecase, h.db, h.config.Auth.RateLimit, h.log, h.expenseHandler, h.exportHandler)
	return r
}

// Start serves on addr until ctx is cancelled, then drains in-flight
// requests for up to shutdownTimeout.
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		h.log.Info("server starting", logger.Fields("addr", addr, "env", h.config.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	h.log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
