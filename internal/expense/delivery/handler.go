package delivery

import (
	"net/http"
	"time"

	"caspometer-backend/internal/auth/authctx"
	"caspometer-backend/internal/expense/dto"
	"caspometer-backend/internal/expense/usecase"
	"caspometer-backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// ExpenseHandler handles expense-related HTTP requests
type ExpenseHandler struct {
	expenseUsecase usecase.ExpenseUsecase
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(expenseUsecase usecase.ExpenseUsecase) *ExpenseHandler {
	return &ExpenseHandler{expenseUsecase: expenseUsecase}
}

// RegisterRoutes mounts the expense endpoints on an already authenticated group.
func (h *ExpenseHandler) RegisterRoutes(g *gin.RouterGroup) {
	g.GET("", h.ListExpenses)
	g.POST("", h.CreateExpense)
	g.GET("/summary/monthly", h.MonthlySummary)
	g.GET("/summary/category", h.CategorySummary)
	g.GET("/summary/budgets", h.BudgetStatus)
	g.GET("/:id", h.GetExpense)
	g.PUT("/:id", h.UpdateExpense)
	g.DELETE("/:id", h.DeleteExpense)
}

// ListExpenses returns the caller's expenses, newest first
// GET /api/expenses
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	expenses, err := h.expenseUsecase.ListExpenses(c.Request.Context(), authctx.UserID(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

// CreateExpense
// POST /api/expenses
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.FromBinding(err))
		return
	}

	expense, err := h.expenseUsecase.CreateExpense(c.Request.Context(), authctx.UserID(c), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, expense)
}

// GetExpense
// GET /api/expenses/:id
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	expense, err := h.expenseUsecase.GetExpense(c.Request.Context(), authctx.UserID(c), c.Param("id"))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// UpdateExpense applies a partial update
// PUT /api/expenses/:id
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	var req dto.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.Respond(c, apperrors.FromBinding(err))
		return
	}

	expense, err := h.expenseUsecase.UpdateExpense(c.Request.Context(), authctx.UserID(c), c.Param("id"), &req)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

// DeleteExpense
// DELETE /api/expenses/:id
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	if err := h.expenseUsecase.DeleteExpense(c.Request.Context(), authctx.UserID(c), c.Param("id")); err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted successfully"})
}

// MonthlySummary
// GET /api/expenses/summary/monthly
func (h *ExpenseHandler) MonthlySummary(c *gin.Context) {
	summary, err := h.expenseUsecase.MonthlySummary(c.Request.Context(), authctx.UserID(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// CategorySummary
// GET /api/expenses/summary/category?startDate=2024-01-01&endDate=2024-01-31
func (h *ExpenseHandler) CategorySummary(c *gin.Context) {
	from, err := dateQuery(c, "startDate", false)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	to, err := dateQuery(c, "endDate", true)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	summary, err := h.expenseUsecase.CategorySummary(c.Request.Context(), authctx.UserID(c), from, to)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// BudgetStatus
// GET /api/expenses/summary/budgets
func (h *ExpenseHandler) BudgetStatus(c *gin.Context) {
	report, err := h.expenseUsecase.BudgetStatus(c.Request.Context(), authctx.UserID(c))
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func dateQuery(c *gin.Context, name string, upper bool) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := dto.ParseDate(raw)
	if err != nil {
		return nil, apperrors.Validation(err.Error()).WithDetail(name, err.Error())
	}
	if upper {
		t = dto.EndOfDay(raw, t)
	}
	return &t, nil
}
