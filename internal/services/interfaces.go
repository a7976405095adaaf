package services

import (
	"time"

	"github.com/shopspring/decimal"

	"chapterfund/internal/models"
	"chapterfund/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, name, chapterName, timezone string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	AttemptLogin(email, password string) (*models.User, error)
	StoreRefreshTokenHash(userID, tokenHash string) error
	GetRefreshTokenHash(userID string) (string, error)
	ClearRefreshTokenHash(userID string) error

	RequestPasswordReset(email string) error
	VerifyResetCode(email, code string) error
	ResetPassword(email, newPassword string) error
}

// BudgetFilter holds optional filter parameters for listing budgets.
type BudgetFilter struct {
	Status       *models.BudgetStatus
	AcademicYear *string
}

// BudgetUtilization reports spending against a budget's allocation.
// Percentage is clamped to [0,100].
type BudgetUtilization struct {
	BudgetID   string          `json:"budget_id"`
	Name       string          `json:"name"`
	Allocated  decimal.Decimal `json:"allocated"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage float64         `json:"percentage"`
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	CreateBudget(userID, name, academicYear string, allocatedAmount decimal.Decimal, description string) (*models.Budget, error)
	GetUserBudgets(userID string, page pagination.PageRequest, filter BudgetFilter) (*pagination.PageResponse[models.Budget], error)
	GetBudgetByID(userID, budgetID string) (*models.Budget, error)
	UpdateBudget(userID, budgetID, name string, allocatedAmount *decimal.Decimal, description *string, status *models.BudgetStatus) (*models.Budget, error)
	DeleteBudget(userID, budgetID string) error
	GetBudgetUtilization(userID, budgetID string) (*BudgetUtilization, error)
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	BudgetID *string
	Status   *models.ExpenseStatus
	Category *string
	FromDate *time.Time
	ToDate   *time.Time
}

// TimelineStage is one node of the approval timeline: stages before the
// expense's current status are completed, the current one is active, the
// rest pending. Date comes from the matching status event, when one exists.
type TimelineStage struct {
	Stage models.ExpenseStatus `json:"stage"`
	State string               `json:"state"` // completed | active | pending
	Date  *time.Time           `json:"date,omitempty"`
	Note  string               `json:"note,omitempty"`
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID, budgetID, item, category, subcategory string, cost decimal.Decimal, fundedBy, comments string, date time.Time) (*models.Expense, error)
	GetUserExpenses(userID string, page pagination.PageRequest, filter ExpenseFilter) (*pagination.PageResponse[models.Expense], error)
	GetBudgetExpenses(userID, budgetID string, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, item, category, subcategory *string, cost *decimal.Decimal, fundedBy, comments *string, date *time.Time) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
	TransitionStatus(userID, expenseID string, to models.ExpenseStatus, note string) (*models.Expense, error)
	GetTimeline(userID, expenseID string) ([]TimelineStage, error)
}

// DeadlineFilter holds optional filter parameters for listing deadlines.
type DeadlineFilter struct {
	Status   *models.DeadlineStatus
	Priority *models.DeadlinePriority
	Source   *models.DeadlineSource
}

// DeadlineServicer defines the contract for deadline-related business logic.
type DeadlineServicer interface {
	CreateDeadline(userID, title string, dueDate time.Time, amount *decimal.Decimal, priority models.DeadlinePriority, notes string) (*models.Deadline, error)
	GetUserDeadlines(userID string, page pagination.PageRequest, filter DeadlineFilter) (*pagination.PageResponse[models.Deadline], error)
	GetDeadlineByID(userID, deadlineID string) (*models.Deadline, error)
	UpdateDeadline(userID, deadlineID string, title *string, dueDate *time.Time, amount *decimal.Decimal, priority *models.DeadlinePriority, notes *string) (*models.Deadline, error)
	CompleteDeadline(userID, deadlineID string) (*models.Deadline, error)
	DeleteDeadline(userID, deadlineID string) error
}

// CategoryServicer defines the contract for the seeded category reference data.
type CategoryServicer interface {
	ListCategories() ([]models.Category, error)
	GetCategoryByName(name string) (*models.Category, error)
}

// DashboardSummary aggregates headline figures for the dashboard.
type DashboardSummary struct {
	TotalAllocated    decimal.Decimal   `json:"total_allocated"`
	TotalSpent        decimal.Decimal   `json:"total_spent"`
	Remaining         decimal.Decimal   `json:"remaining"`
	BudgetCount       int64             `json:"budget_count"`
	ExpenseCount      int64             `json:"expense_count"`
	RecentExpenses    []models.Expense  `json:"recent_expenses"`
	UpcomingDeadlines []models.Deadline `json:"upcoming_deadlines"`
}

// CategoryTotal is one row of the category breakdown.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// TrendPoint is one month bucket of the spending trend.
type TrendPoint struct {
	Month  string          `json:"month"` // "2025-03"
	Amount decimal.Decimal `json:"amount"`
}

// ReportServicer defines the contract for derived-view aggregations and exports.
type ReportServicer interface {
	GetDashboard(userID string) (*DashboardSummary, error)
	GetCategoryBreakdown(userID string) ([]CategoryTotal, error)
	GetSpendingTrend(userID string, now time.Time) ([]TrendPoint, error)
	GetUtilization(userID string) ([]BudgetUtilization, error)
	GetFilteredExpenses(userID string, filter ExpenseFilter) ([]models.Expense, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
