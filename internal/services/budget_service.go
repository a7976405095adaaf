package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "chapterfund/internal/errors"
	"chapterfund/internal/models"
	"chapterfund/internal/pagination"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// CreateBudget creates a new draft budget.
func (s *budgetService) CreateBudget(userID, name, academicYear string, allocatedAmount decimal.Decimal, description string) (*models.Budget, error) {
	if !allocatedAmount.IsPositive() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "allocated amount must be positive")
	}

	budget := &models.Budget{
		UserID:          userID,
		Name:            name,
		AcademicYear:    academicYear,
		AllocatedAmount: allocatedAmount,
		Description:     description,
		Status:          models.BudgetStatusDraft,
	}

	if err := s.db.Create(budget).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return budget, nil
}

// GetUserBudgets returns a paginated list of budgets with optional filters.
func (s *budgetService) GetUserBudgets(userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error) {
	page.Defaults()

	base := s.db.Model(&models.Budget{}).Where("user_id = ?", userID)
	if filter.Status != nil {
		base = base.Where("status = ?", *filter.Status)
	}
	if filter.AcademicYear != nil {
		base = base.Where("academic_year = ?", *filter.AcademicYear)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgets []models.Budget
	if err := base.Order("created_at DESC").Scopes(pagination.Paginate(page)).Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(budgets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID string) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdateBudget updates an existing budget's fields. Locked budgets reject
// everything except unlocking by a status change.
func (s *budgetService) UpdateBudget(userID, budgetID, name string, allocatedAmount *decimal.Decimal, description *string, status *models.BudgetStatus) (*models.Budget, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	if budget.Status == models.BudgetStatusLocked && status == nil {
		return nil, apperrors.ErrBudgetLocked
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if allocatedAmount != nil {
		if !allocatedAmount.IsPositive() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "allocated amount must be positive")
		}
		updates["allocated_amount"] = *allocatedAmount
	}
	if description != nil {
		updates["description"] = *description
	}
	if status != nil {
		updates["status"] = *status
	}

	if len(updates) > 0 {
		if err := s.db.Model(budget).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return budget, nil
}

// DeleteBudget soft-deletes a budget. Its expenses keep their budget_id and
// simply stop contributing to any budget's totals.
func (s *budgetService) DeleteBudget(userID, budgetID string) error {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(budget).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetBudgetUtilization sums the costs of the budget's expenses and reports
// spending against the allocation, with the percentage clamped to [0,100].
func (s *budgetService) GetBudgetUtilization(userID, budgetID string) (*BudgetUtilization, error) {
	budget, err := s.GetBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	var spent decimal.Decimal
	err = s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(cost), 0)").
		Where("budget_id = ? AND user_id = ?", budgetID, userID).
		Scan(&spent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return newUtilization(budget, spent), nil
}

// newUtilization builds a utilization row for a budget and its spent total.
func newUtilization(budget *models.Budget, spent decimal.Decimal) *BudgetUtilization {
	var percentage float64
	if budget.AllocatedAmount.IsPositive() {
		percentage, _ = spent.Div(budget.AllocatedAmount).Mul(decimal.NewFromInt(100)).Float64()
	}
	if percentage > 100 {
		percentage = 100
	}
	if percentage < 0 {
		percentage = 0
	}

	return &BudgetUtilization{
		BudgetID:   budget.ID,
		Name:       budget.Name,
		Allocated:  budget.AllocatedAmount,
		Spent:      spent,
		Remaining:  budget.AllocatedAmount.Sub(spent),
		Percentage: percentage,
	}
}
