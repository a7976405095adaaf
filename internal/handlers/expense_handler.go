package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "chapterfund/internal/errors"
	"chapterfund/internal/models"
	"chapterfund/internal/services"
)

// ExpenseHandler handles expense-related requests.
type ExpenseHandler struct {
	expenseService services.ExpenseServicer
	auditService   services.AuditServicer
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseService services.ExpenseServicer, auditService services.AuditServicer) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService, auditService: auditService}
}

// CreateExpenseRequest represents the request payload for creating an expense
type CreateExpenseRequest struct {
	BudgetID    string          `json:"budget_id" binding:"required,uuid"`
	Item        string          `json:"item" binding:"required,max=200"`
	Category    string          `json:"category" binding:"required,max=100"`
	Subcategory string          `json:"subcategory" binding:"max=100"`
	Cost        decimal.Decimal `json:"cost" binding:"required,positive_amount"`
	FundedBy    string          `json:"funded_by" binding:"max=100"`
	Comments    string          `json:"comments" binding:"max=500"`
	Date        *string         `json:"date"`
}

// UpdateExpenseRequest represents the request payload for updating an expense
type UpdateExpenseRequest struct {
	Item        *string          `json:"item" binding:"omitempty,max=200"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Subcategory *string          `json:"subcategory" binding:"omitempty,max=100"`
	Cost        *decimal.Decimal `json:"cost" binding:"omitempty,positive_amount"`
	FundedBy    *string          `json:"funded_by" binding:"omitempty,max=100"`
	Comments    *string          `json:"comments" binding:"omitempty,max=500"`
	Date        *string          `json:"date"`
}

// TransitionStatusRequest advances an expense through the approval pipeline
type TransitionStatusRequest struct {
	Status models.ExpenseStatus `json:"status" binding:"required,expense_status"`
	Note   string               `json:"note" binding:"max=500"`
}

// ListExpensesQuery holds the filter query parameters for listing expenses
type ListExpensesQuery struct {
	BudgetID *string               `form:"budget_id" binding:"omitempty,uuid"`
	Status   *models.ExpenseStatus `form:"status" binding:"omitempty,expense_status"`
	Category *string               `form:"category" binding:"omitempty,max=100"`
	FromDate *string               `form:"from_date"`
	ToDate   *string               `form:"to_date"`
}

func (q *ListExpensesQuery) toFilter() (services.ExpenseFilter, error) {
	filter := services.ExpenseFilter{
		BudgetID: q.BudgetID,
		Status:   q.Status,
		Category: q.Category,
	}
	if q.FromDate != nil && *q.FromDate != "" {
		parsed, err := parseFlexibleTime(*q.FromDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid from_date")
		}
		filter.FromDate = &parsed
	}
	if q.ToDate != nil && *q.ToDate != "" {
		parsed, err := parseFlexibleTime(*q.ToDate)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid to_date")
		}
		filter.ToDate = &parsed
	}
	return filter, nil
}

// CreateExpense handles the creation of a new expense
// @Summary     Create an expense
// @Description Record a new expense against a budget. The expense starts in draft with its first history entry.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateExpenseRequest true "Expense details"
// @Success     201 {object} models.Expense "Expense created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /expenses [post]
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expenseDate := time.Now()
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date"))
			return
		}
		expenseDate = parsed
	}

	expense, err := h.expenseService.CreateExpense(userID, req.BudgetID, req.Item, req.Category, req.Subcategory,
		req.Cost, req.FundedBy, req.Comments, expenseDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_EXPENSE", "expense", expense.ID, c.ClientIP(),
		map[string]interface{}{"item": req.Item, "cost": req.Cost, "budget_id": req.BudgetID})

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}

// GetExpenses lists the user's expenses
// @Summary     List expenses
// @Description List the authenticated user's expenses with optional budget, status, category, and date range filters
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       budget_id query string false "Filter by budget"
// @Param       status query string false "Filter by status" Enums(draft, pending_review, approved, payment_processing, completed, rejected)
// @Param       category query string false "Filter by category"
// @Param       from_date query string false "Earliest expense date (RFC 3339 or YYYY-MM-DD)"
// @Param       to_date query string false "Latest expense date (RFC 3339 or YYYY-MM-DD)"
// @Success     200 {object} pagination.PageResponse[models.Expense] "Expenses"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /expenses [get]
func (h *ExpenseHandler) GetExpenses(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	page, err := bindPageRequest(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query ListExpensesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	filter, err := query.toFilter()
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.expenseService.GetUserExpenses(userID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, expenses)
}

// GetExpense returns a single expense with its status history
// @Summary     Get an expense
// @Description Get a single expense by ID, including its status history
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} models.Expense "Expense"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [get]
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	expense, err := h.expenseService.GetExpenseByID(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// UpdateExpense updates an editable expense
// @Summary     Update an expense
// @Description Update an expense's details. Only draft and pending_review expenses are editable.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Param       request body UpdateExpenseRequest true "Fields to update"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Expense not editable"
// @Router      /expenses/{id} [put]
func (h *ExpenseHandler) UpdateExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var expenseDate *time.Time
	if req.Date != nil && *req.Date != "" {
		parsed, parseErr := parseFlexibleTime(*req.Date)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date"))
			return
		}
		expenseDate = &parsed
	}

	expense, err := h.expenseService.UpdateExpense(userID, expenseID, req.Item, req.Category, req.Subcategory,
		req.Cost, req.FundedBy, req.Comments, expenseDate)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// DeleteExpense deletes an expense
// @Summary     Delete an expense
// @Description Soft-delete an expense and its history
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {object} map[string]string "Expense deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id} [delete]
func (h *ExpenseHandler) DeleteExpense(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.expenseService.DeleteExpense(userID, expenseID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_EXPENSE", "expense", expenseID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// TransitionStatus advances an expense through the approval pipeline
// @Summary     Transition expense status
// @Description Move an expense one step forward through the approval pipeline, or reject it. The status change and its history entry are written together.
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Param       request body TransitionStatusRequest true "Target status and optional note"
// @Success     200 {object} models.Expense "Updated expense"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Failure     409 {object} ErrorResponse "Illegal transition or terminal status"
// @Router      /expenses/{id}/status [post]
func (h *ExpenseHandler) TransitionStatus(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransitionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	expense, err := h.expenseService.TransitionStatus(userID, expenseID, req.Status, req.Note)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "TRANSITION_EXPENSE_STATUS", "expense", expenseID, c.ClientIP(),
		map[string]interface{}{"status": req.Status})

	c.JSON(http.StatusOK, gin.H{"expense": expense})
}

// GetTimeline returns the expense's approval timeline
// @Summary     Get expense timeline
// @Description Get the approval pipeline timeline for an expense: completed, active, and pending stages with dates from the status history
// @Tags        expenses
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Expense ID"
// @Success     200 {array} services.TimelineStage "Timeline"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Expense not found"
// @Router      /expenses/{id}/timeline [get]
func (h *ExpenseHandler) GetTimeline(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenseID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	timeline, err := h.expenseService.GetTimeline(userID, expenseID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"timeline": timeline})
}
