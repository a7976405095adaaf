package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "chapterfund/internal/errors"
	"chapterfund/internal/export"
	"chapterfund/internal/services"
)

// ReportHandler serves dashboard aggregations and expense exports.
type ReportHandler struct {
	reportService services.ReportServicer
	auditService  services.AuditServicer
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService services.ReportServicer, auditService services.AuditServicer) *ReportHandler {
	return &ReportHandler{reportService: reportService, auditService: auditService}
}

// GetDashboard returns headline figures for the dashboard
// @Summary     Get dashboard summary
// @Description Get total allocated, total spent, remaining, counts, the five most recent expenses, and the five nearest upcoming deadlines
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.DashboardSummary "Dashboard summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/dashboard [get]
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.reportService.GetDashboard(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"dashboard": summary})
}

// GetCategoryBreakdown returns spending totals grouped by category
// @Summary     Get category breakdown
// @Description Get total spending per category, highest first
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.CategoryTotal "Category totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/category-breakdown [get]
func (h *ReportHandler) GetCategoryBreakdown(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	breakdown, err := h.reportService.GetCategoryBreakdown(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"breakdown": breakdown})
}

// GetSpendingTrend returns monthly spending for the last six months
// @Summary     Get spending trend
// @Description Get spending bucketed by calendar month for the six months ending with the current one
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.TrendPoint "Monthly totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/trend [get]
func (h *ReportHandler) GetSpendingTrend(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	trend, err := h.reportService.GetSpendingTrend(userID, time.Now())
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": trend})
}

// GetUtilization returns utilization rows for all budgets
// @Summary     Get utilization report
// @Description Get allocated, spent, remaining, and utilization percentage for every budget
// @Tags        reports
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} services.BudgetUtilization "Utilization rows"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/utilization [get]
func (h *ReportHandler) GetUtilization(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	utilization, err := h.reportService.GetUtilization(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"utilization": utilization})
}

// exportFilter binds the shared export query parameters.
func exportFilter(c *gin.Context) (services.ExpenseFilter, error) {
	var query ListExpensesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		return services.ExpenseFilter{}, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return query.toFilter()
}

// ExportCSV streams the user's expenses as a CSV file
// @Summary     Export expenses as CSV
// @Description Download the filtered expense list as a CSV attachment. An empty result still yields the header row.
// @Tags        reports
// @Accept      json
// @Produce     text/csv
// @Security    BearerAuth
// @Param       budget_id query string false "Filter by budget"
// @Param       status query string false "Filter by status"
// @Param       category query string false "Filter by category"
// @Param       from_date query string false "Earliest expense date"
// @Param       to_date query string false "Latest expense date"
// @Success     200 {string} string "CSV file"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/export/csv [get]
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := exportFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.reportService.GetFilteredExpenses(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, expenses); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(userID, "EXPORT_EXPENSES_CSV", "report", "", c.ClientIP(),
		map[string]interface{}{"count": len(expenses)})

	filename := fmt.Sprintf("expenses-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}

// ExportPDF streams the user's expenses as a PDF report
// @Summary     Export expenses as PDF
// @Description Download the filtered expense list as a PDF attachment with a generated-on header and totals
// @Tags        reports
// @Accept      json
// @Produce     application/pdf
// @Security    BearerAuth
// @Param       budget_id query string false "Filter by budget"
// @Param       status query string false "Filter by status"
// @Param       category query string false "Filter by category"
// @Param       from_date query string false "Earliest expense date"
// @Param       to_date query string false "Latest expense date"
// @Success     200 {string} string "PDF file"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /reports/export/pdf [get]
func (h *ReportHandler) ExportPDF(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := exportFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	expenses, err := h.reportService.GetFilteredExpenses(userID, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, "Expense Report", expenses, time.Now()); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}

	h.auditService.Log(userID, "EXPORT_EXPENSES_PDF", "report", "", c.ClientIP(),
		map[string]interface{}{"count": len(expenses)})

	filename := fmt.Sprintf("expenses-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
