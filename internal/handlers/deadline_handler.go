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

// DeadlineHandler handles deadline-related requests.
type DeadlineHandler struct {
	deadlineService services.DeadlineServicer
	auditService    services.AuditServicer
}

// NewDeadlineHandler creates a new DeadlineHandler.
func NewDeadlineHandler(deadlineService services.DeadlineServicer, auditService services.AuditServicer) *DeadlineHandler {
	return &DeadlineHandler{deadlineService: deadlineService, auditService: auditService}
}

// CreateDeadlineRequest represents the request payload for creating a deadline
type CreateDeadlineRequest struct {
	Title    string                  `json:"title" binding:"required,max=200"`
	DueDate  string                  `json:"due_date" binding:"required"`
	Amount   *decimal.Decimal        `json:"amount" binding:"omitempty,positive_amount"`
	Priority models.DeadlinePriority `json:"priority" binding:"required,deadline_priority"`
	Notes    string                  `json:"notes" binding:"max=500"`
}

// UpdateDeadlineRequest represents the request payload for updating a deadline
type UpdateDeadlineRequest struct {
	Title    *string                  `json:"title" binding:"omitempty,max=200"`
	DueDate  *string                  `json:"due_date"`
	Amount   *decimal.Decimal         `json:"amount" binding:"omitempty,positive_amount"`
	Priority *models.DeadlinePriority `json:"priority" binding:"omitempty,deadline_priority"`
	Notes    *string                  `json:"notes" binding:"omitempty,max=500"`
}

// ListDeadlinesQuery holds the filter query parameters for listing deadlines
type ListDeadlinesQuery struct {
	Status   *models.DeadlineStatus   `form:"status" binding:"omitempty,deadline_status"`
	Priority *models.DeadlinePriority `form:"priority" binding:"omitempty,deadline_priority"`
	Source   *models.DeadlineSource   `form:"source" binding:"omitempty,oneof=admin_event chapter"`
}

// CreateDeadline handles the creation of a new deadline
// @Summary     Create a deadline
// @Description Create a new chapter deadline. Deadlines created here always have the chapter source; admin_event deadlines come from seed data and are read-only.
// @Tags        deadlines
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDeadlineRequest true "Deadline details"
// @Success     201 {object} models.Deadline "Deadline created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /deadlines [post]
func (h *DeadlineHandler) CreateDeadline(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	dueDate, err := parseFlexibleTime(req.DueDate)
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid due_date"))
		return
	}

	deadline, err := h.deadlineService.CreateDeadline(userID, req.Title, dueDate, req.Amount, req.Priority, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_DEADLINE", "deadline", deadline.ID, c.ClientIP(),
		map[string]interface{}{"title": req.Title, "priority": req.Priority})

	c.JSON(http.StatusCreated, gin.H{"deadline": deadline})
}

// GetDeadlines lists the user's deadlines
// @Summary     List deadlines
// @Description List the authenticated user's deadlines with optional status, priority, and source filters. Upcoming deadlines past their due date are reported as overdue.
// @Tags        deadlines
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page query int false "Page number"
// @Param       page_size query int false "Page size"
// @Param       status query string false "Filter by status" Enums(upcoming, completed, overdue)
// @Param       priority query string false "Filter by priority" Enums(high, medium, low)
// @Param       source query string false "Filter by source" Enums(admin_event, chapter)
// @Success     200 {object} pagination.PageResponse[models.Deadline] "Deadlines"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /deadlines [get]
func (h *DeadlineHandler) GetDeadlines(c *gin.Context) {
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

	var query ListDeadlinesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	deadlines, err := h.deadlineService.GetUserDeadlines(userID, page, services.DeadlineFilter{
		Status:   query.Status,
		Priority: query.Priority,
		Source:   query.Source,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, deadlines)
}

// GetDeadline returns a single deadline
// @Summary     Get a deadline
// @Description Get a single deadline by ID
// @Tags        deadlines
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deadline ID"
// @Success     200 {object} models.Deadline "Deadline"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Deadline not found"
// @Router      /deadlines/{id} [get]
func (h *DeadlineHandler) GetDeadline(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deadlineID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deadline, err := h.deadlineService.GetDeadlineByID(userID, deadlineID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deadline": deadline})
}

// UpdateDeadline updates a chapter deadline
// @Summary     Update a deadline
// @Description Update a chapter deadline. Deadlines sourced from admin events are read-only.
// @Tags        deadlines
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deadline ID"
// @Param       request body UpdateDeadlineRequest true "Fields to update"
// @Success     200 {object} models.Deadline "Updated deadline"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Deadline is read-only"
// @Failure     404 {object} ErrorResponse "Deadline not found"
// @Router      /deadlines/{id} [put]
func (h *DeadlineHandler) UpdateDeadline(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deadlineID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		parsed, parseErr := parseFlexibleTime(*req.DueDate)
		if parseErr != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid due_date"))
			return
		}
		dueDate = &parsed
	}

	deadline, err := h.deadlineService.UpdateDeadline(userID, deadlineID, req.Title, dueDate, req.Amount, req.Priority, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "UPDATE_DEADLINE", "deadline", deadlineID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"deadline": deadline})
}

// CompleteDeadline marks a deadline as completed
// @Summary     Complete a deadline
// @Description Mark a chapter deadline as completed. Admin event deadlines cannot be completed here.
// @Tags        deadlines
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deadline ID"
// @Success     200 {object} models.Deadline "Completed deadline"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Deadline is read-only"
// @Failure     404 {object} ErrorResponse "Deadline not found"
// @Router      /deadlines/{id}/complete [post]
func (h *DeadlineHandler) CompleteDeadline(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deadlineID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	deadline, err := h.deadlineService.CompleteDeadline(userID, deadlineID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "COMPLETE_DEADLINE", "deadline", deadlineID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"deadline": deadline})
}

// DeleteDeadline deletes a chapter deadline
// @Summary     Delete a deadline
// @Description Soft-delete a chapter deadline. Admin event deadlines cannot be deleted.
// @Tags        deadlines
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Deadline ID"
// @Success     200 {object} map[string]string "Deadline deleted"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     403 {object} ErrorResponse "Deadline is read-only"
// @Failure     404 {object} ErrorResponse "Deadline not found"
// @Router      /deadlines/{id} [delete]
func (h *DeadlineHandler) DeleteDeadline(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deadlineID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.deadlineService.DeleteDeadline(userID, deadlineID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "DELETE_DEADLINE", "deadline", deadlineID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"message": "Deadline deleted"})
}
