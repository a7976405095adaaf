package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"chapterfund/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email. The
// password is always "password123".
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:       email,
		Password:    string(hash),
		Name:        fmt.Sprintf("Test User %d", nextID()),
		ChapterName: "Test Chapter",
		Role:        models.UserRoleTreasurer,
		Timezone:    "UTC",
		IsActive:    true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget creates an approved budget with the given allocation.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID string, allocated string) *models.Budget {
	t.Helper()

	amount, err := decimal.NewFromString(allocated)
	if err != nil {
		t.Fatalf("invalid allocated amount %q: %v", allocated, err)
	}

	budget := &models.Budget{
		UserID:          userID,
		Name:            fmt.Sprintf("Test Budget %d", nextID()),
		AcademicYear:    "2025-2026",
		AllocatedAmount: amount,
		Status:          models.BudgetStatusApproved,
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestExpense creates a draft expense with its initial status event.
func CreateTestExpense(t *testing.T, db *gorm.DB, userID, budgetID, category, cost string) *models.Expense {
	t.Helper()
	return CreateTestExpenseWithStatus(t, db, userID, budgetID, category, cost, models.ExpenseStatusDraft)
}

// CreateTestExpenseWithStatus creates an expense in the given status with a
// matching final status event.
func CreateTestExpenseWithStatus(t *testing.T, db *gorm.DB, userID, budgetID, category, cost string, status models.ExpenseStatus) *models.Expense {
	t.Helper()

	amount, err := decimal.NewFromString(cost)
	if err != nil {
		t.Fatalf("invalid cost %q: %v", cost, err)
	}

	expense := &models.Expense{
		UserID:   userID,
		BudgetID: budgetID,
		Item:     fmt.Sprintf("Test Item %d", nextID()),
		Category: category,
		Cost:     amount,
		FundedBy: "Chapter funds",
		Date:     time.Now(),
		Status:   status,
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}

	event := &models.StatusEvent{
		ExpenseID:  expense.ID,
		Stage:      status,
		OccurredAt: time.Now(),
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("failed to create test status event: %v", err)
	}
	return expense
}

// CreateTestDeadline creates an upcoming chapter deadline due in a week.
func CreateTestDeadline(t *testing.T, db *gorm.DB, userID string) *models.Deadline {
	t.Helper()
	return CreateTestDeadlineWithSource(t, db, userID, models.DeadlineSourceChapter)
}

// CreateTestDeadlineWithSource creates an upcoming deadline with the given source.
func CreateTestDeadlineWithSource(t *testing.T, db *gorm.DB, userID string, source models.DeadlineSource) *models.Deadline {
	t.Helper()

	deadline := &models.Deadline{
		UserID:   userID,
		Title:    fmt.Sprintf("Test Deadline %d", nextID()),
		DueDate:  time.Now().Add(7 * 24 * time.Hour),
		Priority: models.DeadlinePriorityMedium,
		Status:   models.DeadlineStatusUpcoming,
		Source:   source,
	}
	if err := db.Create(deadline).Error; err != nil {
		t.Fatalf("failed to create test deadline: %v", err)
	}
	return deadline
}

// CreateTestCategory creates a category with two subcategories.
func CreateTestCategory(t *testing.T, db *gorm.DB, name string) *models.Category {
	t.Helper()

	category := &models.Category{
		Name:          name,
		Subcategories: []string{"Sub A", "Sub B"},
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}
