package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "chapterfund/internal/errors"
	"chapterfund/internal/models"
	"chapterfund/internal/pagination"
)

// expenseService handles expense-related business logic, including the
// approval pipeline.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

// CreateExpense creates a draft expense attached to a budget and writes the
// initial draft status event in the same transaction.
func (s *expenseService) CreateExpense(userID, budgetID, item, category, subcategory string, cost decimal.Decimal, fundedBy, comments string, date time.Time) (*models.Expense, error) {
	if !cost.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cost must be positive")
	}

	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseBudgetMissing
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expense := &models.Expense{
		UserID:      userID,
		BudgetID:    budgetID,
		Item:        item,
		Category:    category,
		Subcategory: subcategory,
		Cost:        cost,
		FundedBy:    fundedBy,
		Comments:    comments,
		Date:        date,
		Status:      models.ExpenseStatusDraft,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(expense).Error; err != nil {
			return err
		}
		event := &models.StatusEvent{
			ExpenseID:  expense.ID,
			Stage:      models.ExpenseStatusDraft,
			OccurredAt: time.Now(),
		}
		return tx.Create(event).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return expense, nil
}

func applyExpenseFilter(q *gorm.DB, filter ExpenseFilter) *gorm.DB {
	if filter.BudgetID != nil {
		q = q.Where("budget_id = ?", *filter.BudgetID)
	}
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.FromDate != nil {
		q = q.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		q = q.Where("date <= ?", *filter.ToDate)
	}
	return q
}

// GetUserExpenses returns a paginated list of the user's expenses with
// optional filters.
func (s *expenseService) GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := applyExpenseFilter(s.db.Model(&models.Expense{}).Where("user_id = ?", userID), filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base.Order("date DESC").Scopes(pagination.Paginate(page)).Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetExpenses lists the expenses attached to one budget.
func (s *expenseService) GetBudgetExpenses(userID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetUserExpenses(userID, page, ExpenseFilter{BudgetID: &budgetID})
}

// GetExpenseByID returns an expense with its status history, ordered oldest
// first.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.Preload("StatusHistory", func(db *gorm.DB) *gorm.DB {
		return db.Order("occurred_at ASC")
	}).Where("id = ? AND user_id = ?", expenseID, userID).First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense updates the descriptive fields of a draft or pending
// expense. Status changes go through TransitionStatus only.
func (s *expenseService) UpdateExpense(userID, expenseID string, item, category, subcategory *string, cost *decimal.Decimal, fundedBy, comments *string, date *time.Time) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if expense.Status != models.ExpenseStatusDraft && expense.Status != models.ExpenseStatusPendingReview {
		return nil, apperrors.ErrExpenseNotEditable
	}

	updates := make(map[string]interface{})
	if item != nil {
		updates["item"] = *item
	}
	if category != nil {
		updates["category"] = *category
	}
	if subcategory != nil {
		updates["subcategory"] = *subcategory
	}
	if cost != nil {
		if !cost.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "cost must be positive")
		}
		updates["cost"] = *cost
	}
	if fundedBy != nil {
		updates["funded_by"] = *fundedBy
	}
	if comments != nil {
		updates["comments"] = *comments
	}
	if date != nil {
		updates["date"] = *date
	}

	if len(updates) > 0 {
		if err := s.db.Model(expense).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return expense, nil
}

// DeleteExpense soft-deletes an expense and removes it from all aggregates.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(expense).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// TransitionStatus moves an expense along the approval pipeline. The status
// column and the appended history event are written in one transaction, so
// the newest event's stage always equals the status.
func (s *expenseService) TransitionStatus(userID, expenseID string, to models.ExpenseStatus, note string) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	if expense.Status.IsTerminal() {
		return nil, apperrors.ErrExpenseStatusTerminal
	}
	if !models.CanTransition(expense.Status, to) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidStatusTransition,
			"cannot move from "+string(expense.Status)+" to "+string(to))
	}

	event := &models.StatusEvent{
		ExpenseID:  expense.ID,
		Stage:      to,
		OccurredAt: time.Now(),
		Note:       note,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(expense).Update("status", to).Error; err != nil {
			return err
		}
		return tx.Create(event).Error
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	expense.Status = to
	expense.StatusHistory = append(expense.StatusHistory, *event)
	return expense, nil
}

// GetTimeline derives the approval timeline for display: stages before the
// current status are completed, the current one active, later ones pending.
// Dates come from the earliest history event matching each stage; a pending
// stage with no event carries no date.
func (s *expenseService) GetTimeline(userID, expenseID string) ([]TimelineStage, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	firstEvent := make(map[models.ExpenseStatus]*models.StatusEvent, len(expense.StatusHistory))
	for i := range expense.StatusHistory {
		ev := &expense.StatusHistory[i]
		if _, seen := firstEvent[ev.Stage]; !seen {
			firstEvent[ev.Stage] = ev
		}
	}

	currentIdx := models.StageIndex(expense.Status)
	rejected := expense.Status == models.ExpenseStatusRejected

	timeline := make([]TimelineStage, 0, len(models.ApprovalStages)+1)
	for i, stage := range models.ApprovalStages {
		node := TimelineStage{Stage: stage, State: "pending"}
		switch {
		case rejected:
			// Stages actually reached before rejection show as completed.
			if _, reached := firstEvent[stage]; reached {
				node.State = "completed"
			}
		case i < currentIdx:
			node.State = "completed"
		case i == currentIdx:
			node.State = "active"
		}
		if ev, ok := firstEvent[stage]; ok {
			t := ev.OccurredAt
			node.Date = &t
			node.Note = ev.Note
		}
		timeline = append(timeline, node)
	}

	if rejected {
		node := TimelineStage{Stage: models.ExpenseStatusRejected, State: "active"}
		if ev, ok := firstEvent[models.ExpenseStatusRejected]; ok {
			t := ev.OccurredAt
			node.Date = &t
			node.Note = ev.Note
		}
		timeline = append(timeline, node)
	}

	return timeline, nil
}
