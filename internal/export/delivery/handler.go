package delivery

import (
	"net/http"

	"caspometer-backend/internal/auth/authctx"
	"caspometer-backend/internal/export/usecase"
	"caspometer-backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type ExportHandler struct {
	exportUsecase usecase.ExportUsecase
}

func NewExportHandler(exportUsecase usecase.ExportUsecase) *ExportHandler {
	return &ExportHandler{exportUsecase: exportUsecase}
}

func (h *ExportHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("/expenses-csv", h.ExpensesCSV)
	g.GET("/user-data", h.UserData)
}

// ExpensesCSV
// GET /api/export/expenses-csv
func (h *ExportHandler) ExpensesCSV(c *gin.Context) {
	data, err := h.exportUsecase.ExpensesCSV(c.Request.Context(), authctx.UserID(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="expenses.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}

// UserData
// GET /api/export/user-data
func (h *ExportHandler) UserData(c *gin.Context) {
	data, err := h.exportUsecase.UserData(c.Request.Context(), authctx.UserID(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="user-data.json"`)
	c.JSON(http.StatusOK, data)
}
