package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "chapterfund/internal/errors"
	"chapterfund/internal/models"
)

const (
	dashboardRecentCount   = 5
	dashboardDeadlineCount = 5
	trendMonths            = 6
)

// reportService computes derived views over the budget and expense
// collections. Everything here is a stateless fold recomputed per request.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// GetDashboard aggregates the headline figures: total allocation, total
// spending, remaining balance, and the most recent activity.
func (s *reportService) GetDashboard(userID string) (*DashboardSummary, error) {
	var totalAllocated decimal.Decimal
	err := s.db.Model(&models.Budget{}).
		Select("COALESCE(SUM(allocated_amount), 0)").
		Where("user_id = ?", userID).
		Scan(&totalAllocated).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var totalSpent decimal.Decimal
	err = s.db.Model(&models.Expense{}).
		Select("COALESCE(SUM(cost), 0)").
		Where("user_id = ?", userID).
		Scan(&totalSpent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var budgetCount, expenseCount int64
	if err := s.db.Model(&models.Budget{}).Where("user_id = ?", userID).Count(&budgetCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if err := s.db.Model(&models.Expense{}).Where("user_id = ?", userID).Count(&expenseCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var recent []models.Expense
	err = s.db.Where("user_id = ?", userID).
		Order("date DESC").Limit(dashboardRecentCount).Find(&recent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	var deadlines []models.Deadline
	err = s.db.Where("user_id = ? AND status = ? AND due_date >= ?",
		userID, models.DeadlineStatusUpcoming, now).
		Order("due_date ASC").Limit(dashboardDeadlineCount).Find(&deadlines).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return &DashboardSummary{
		TotalAllocated:    totalAllocated,
		TotalSpent:        totalSpent,
		Remaining:         totalAllocated.Sub(totalSpent),
		BudgetCount:       budgetCount,
		ExpenseCount:      expenseCount,
		RecentExpenses:    recent,
		UpcomingDeadlines: deadlines,
	}, nil
}

// GetCategoryBreakdown returns one total per distinct expense category.
func (s *reportService) GetCategoryBreakdown(userID string) ([]CategoryTotal, error) {
	var rows []CategoryTotal
	err := s.db.Model(&models.Expense{}).
		Select("category, COALESCE(SUM(cost), 0) AS total").
		Where("user_id = ?", userID).
		Group("category").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if rows == nil {
		rows = []CategoryTotal{}
	}
	return rows, nil
}

// GetSpendingTrend partitions the trailing six calendar months into buckets
// and sums expense costs whose date falls inside each bucket. The fold runs
// in memory so month boundaries follow Go's calendar arithmetic rather than
// each database's date functions.
func (s *reportService) GetSpendingTrend(userID string, now time.Time) ([]TrendPoint, error) {
	windowStart := monthStart(now).AddDate(0, -(trendMonths - 1), 0)

	var expenses []models.Expense
	err := s.db.Select("cost", "date").
		Where("user_id = ? AND date >= ?", userID, windowStart).
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	points := make([]TrendPoint, trendMonths)
	for i := 0; i < trendMonths; i++ {
		bucket := windowStart.AddDate(0, i, 0)
		points[i] = TrendPoint{Month: bucket.Format("2006-01"), Amount: decimal.Zero}
	}

	for _, e := range expenses {
		if e.Date.After(now) {
			continue
		}
		idx := monthsBetween(windowStart, e.Date)
		if idx >= 0 && idx < trendMonths {
			points[idx].Amount = points[idx].Amount.Add(e.Cost)
		}
	}

	return points, nil
}

// GetUtilization returns one clamped utilization row per budget. Expenses
// whose budget no longer exists contribute to no row.
func (s *reportService) GetUtilization(userID string) ([]BudgetUtilization, error) {
	var budgets []models.Budget
	if err := s.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	type spentRow struct {
		BudgetID string
		Total    decimal.Decimal
	}
	var spent []spentRow
	err := s.db.Model(&models.Expense{}).
		Select("budget_id, COALESCE(SUM(cost), 0) AS total").
		Where("user_id = ?", userID).
		Group("budget_id").
		Scan(&spent).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	spentByBudget := make(map[string]decimal.Decimal, len(spent))
	for _, row := range spent {
		spentByBudget[row.BudgetID] = row.Total
	}

	rows := make([]BudgetUtilization, 0, len(budgets))
	for i := range budgets {
		total, ok := spentByBudget[budgets[i].ID]
		if !ok {
			total = decimal.Zero
		}
		rows = append(rows, *newUtilization(&budgets[i], total))
	}
	return rows, nil
}

// GetFilteredExpenses returns the full (unpaginated) expense set matching a
// filter, ordered by date, for report exports.
func (s *reportService) GetFilteredExpenses(userID string, filter ExpenseFilter) ([]models.Expense, error) {
	q := applyExpenseFilter(s.db.Model(&models.Expense{}).Where("user_id = ?", userID), filter)

	var expenses []models.Expense
	if err := q.Order("date ASC").Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// monthStart truncates a time to the first instant of its calendar month.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// monthsBetween counts whole calendar months from the month of a to the
// month of b.
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}
