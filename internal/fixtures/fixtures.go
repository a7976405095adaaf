// Package fixtures seeds the database with demo reference data. Fixture
// files are parsed and validated before anything is admitted to the
// database; a malformed fixture aborts the seed instead of loading junk.
package fixtures

import (
	"embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"chapterfund/internal/logger"
	"chapterfund/internal/models"
)

//go:embed data/*.json
var dataFS embed.FS

var validate = validator.New()

// Fixture timestamps are Unix seconds; they are converted to time.Time
// here, at the load boundary, and nowhere else.

type userFixture struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	Name        string `json:"name" validate:"required"`
	ChapterName string `json:"chapter_name"`
	Role        string `json:"role" validate:"required,oneof=admin treasurer member"`
	Timezone    string `json:"timezone"`
	CreatedAt   int64  `json:"created_at" validate:"required,gt=0"`
}

type categoryFixture struct {
	Name          string   `json:"name" validate:"required"`
	Subcategories []string `json:"subcategories"`
}

type budgetFixture struct {
	Key             string `json:"key" validate:"required"`
	Name            string `json:"name" validate:"required"`
	AcademicYear    string `json:"academic_year" validate:"required"`
	AllocatedAmount string `json:"allocated_amount" validate:"required"`
	Description     string `json:"description"`
	Status          string `json:"status" validate:"required,oneof=draft submitted approved locked"`
}

type statusEventFixture struct {
	Stage     string `json:"stage" validate:"required,oneof=draft pending_review approved payment_processing completed rejected"`
	Timestamp int64  `json:"timestamp" validate:"required,gt=0"`
	Note      string `json:"note"`
}

type expenseFixture struct {
	BudgetKey     string               `json:"budget_key" validate:"required"`
	Item          string               `json:"item" validate:"required"`
	Category      string               `json:"category" validate:"required"`
	Subcategory   string               `json:"subcategory"`
	Cost          string               `json:"cost" validate:"required"`
	FundedBy      string               `json:"funded_by"`
	Comments      string               `json:"comments"`
	Date          int64                `json:"date" validate:"required,gt=0"`
	Status        string               `json:"status" validate:"required,oneof=draft pending_review approved payment_processing completed rejected"`
	StatusHistory []statusEventFixture `json:"status_history" validate:"required,min=1,dive"`
}

type deadlineFixture struct {
	Title    string `json:"title" validate:"required"`
	DueDate  int64  `json:"due_date" validate:"required,gt=0"`
	Amount   string `json:"amount"`
	Priority string `json:"priority" validate:"required,oneof=high medium low"`
	Status   string `json:"status" validate:"required,oneof=upcoming completed overdue"`
	Notes    string `json:"notes"`
	Source   string `json:"source" validate:"required,oneof=admin_event chapter"`
}

// Seed loads all fixture files into the database. It is a no-op when a
// user already exists, so it is safe to run on every start of the demo
// environment.
func Seed(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return fmt.Errorf("fixtures: count users: %w", err)
	}
	if userCount > 0 {
		logger.Get().Info("Fixtures already seeded, skipping")
		return nil
	}

	users, err := seedUsers(db)
	if err != nil {
		return err
	}
	if err := seedCategories(db); err != nil {
		return err
	}

	// Demo budgets, expenses and deadlines belong to the first fixture user.
	owner := users[0]
	budgetIDs, err := seedBudgets(db, owner.ID)
	if err != nil {
		return err
	}
	if err := seedExpenses(db, owner.ID, budgetIDs); err != nil {
		return err
	}
	if err := seedDeadlines(db, owner.ID); err != nil {
		return err
	}

	logger.Get().Info("Fixture data seeded")
	return nil
}

func loadFixture[T any](name string) ([]T, error) {
	raw, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return nil, fmt.Errorf("fixtures: read %s: %w", name, err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("fixtures: parse %s: %w", name, err)
	}
	for i := range items {
		if err := validate.Struct(&items[i]); err != nil {
			return nil, fmt.Errorf("fixtures: %s entry %d: %w", name, i, err)
		}
	}
	return items, nil
}

func seedUsers(db *gorm.DB) ([]models.User, error) {
	fixtures, err := loadFixture[userFixture]("users.json")
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(fixtures))
	for _, f := range fixtures {
		hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("fixtures: hash password for %s: %w", f.Email, err)
		}
		tz := f.Timezone
		if tz == "" {
			tz = "UTC"
		}
		user := models.User{
			Email:       f.Email,
			Password:    string(hash),
			Name:        f.Name,
			ChapterName: f.ChapterName,
			Role:        models.UserRole(f.Role),
			Timezone:    tz,
			IsActive:    true,
		}
		user.CreatedAt = time.Unix(f.CreatedAt, 0)
		if err := db.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("fixtures: create user %s: %w", f.Email, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func seedCategories(db *gorm.DB) error {
	fixtures, err := loadFixture[categoryFixture]("categories.json")
	if err != nil {
		return err
	}
	for _, f := range fixtures {
		category := models.Category{Name: f.Name, Subcategories: f.Subcategories}
		if err := db.Create(&category).Error; err != nil {
			return fmt.Errorf("fixtures: create category %s: %w", f.Name, err)
		}
	}
	return nil
}

func seedBudgets(db *gorm.DB, userID string) (map[string]string, error) {
	fixtures, err := loadFixture[budgetFixture]("budgets.json")
	if err != nil {
		return nil, err
	}

	ids := make(map[string]string, len(fixtures))
	for _, f := range fixtures {
		amount, err := decimal.NewFromString(f.AllocatedAmount)
		if err != nil || !amount.IsPositive() {
			return nil, fmt.Errorf("fixtures: budget %q has invalid allocated_amount %q", f.Name, f.AllocatedAmount)
		}
		budget := models.Budget{
			UserID:          userID,
			Name:            f.Name,
			AcademicYear:    f.AcademicYear,
			AllocatedAmount: amount,
			Description:     f.Description,
			Status:          models.BudgetStatus(f.Status),
		}
		if err := db.Create(&budget).Error; err != nil {
			return nil, fmt.Errorf("fixtures: create budget %s: %w", f.Name, err)
		}
		ids[f.Key] = budget.ID
	}
	return ids, nil
}

func seedExpenses(db *gorm.DB, userID string, budgetIDs map[string]string) error {
	fixtures, err := loadFixture[expenseFixture]("expenses.json")
	if err != nil {
		return err
	}

	for _, f := range fixtures {
		budgetID, ok := budgetIDs[f.BudgetKey]
		if !ok {
			return fmt.Errorf("fixtures: expense %q references unknown budget key %q", f.Item, f.BudgetKey)
		}
		cost, err := decimal.NewFromString(f.Cost)
		if err != nil || !cost.IsPositive() {
			return fmt.Errorf("fixtures: expense %q has invalid cost %q", f.Item, f.Cost)
		}

		// The newest history entry must match the status; reject fixture
		// drift rather than replicate it.
		last := f.StatusHistory[len(f.StatusHistory)-1]
		if last.Stage != f.Status {
			return fmt.Errorf("fixtures: expense %q status %q does not match last history stage %q", f.Item, f.Status, last.Stage)
		}

		expense := models.Expense{
			UserID:      userID,
			BudgetID:    budgetID,
			Item:        f.Item,
			Category:    f.Category,
			Subcategory: f.Subcategory,
			Cost:        cost,
			FundedBy:    f.FundedBy,
			Comments:    f.Comments,
			Date:        time.Unix(f.Date, 0),
			Status:      models.ExpenseStatus(f.Status),
		}
		if err := db.Create(&expense).Error; err != nil {
			return fmt.Errorf("fixtures: create expense %s: %w", f.Item, err)
		}
		for _, ev := range f.StatusHistory {
			event := models.StatusEvent{
				ExpenseID:  expense.ID,
				Stage:      models.ExpenseStatus(ev.Stage),
				OccurredAt: time.Unix(ev.Timestamp, 0),
				Note:       ev.Note,
			}
			if err := db.Create(&event).Error; err != nil {
				return fmt.Errorf("fixtures: create status event for %s: %w", f.Item, err)
			}
		}
	}
	return nil
}

func seedDeadlines(db *gorm.DB, userID string) error {
	fixtures, err := loadFixture[deadlineFixture]("deadlines.json")
	if err != nil {
		return err
	}

	for _, f := range fixtures {
		var amount *decimal.Decimal
		if f.Amount != "" {
			parsed, err := decimal.NewFromString(f.Amount)
			if err != nil || !parsed.IsPositive() {
				return fmt.Errorf("fixtures: deadline %q has invalid amount %q", f.Title, f.Amount)
			}
			amount = &parsed
		}
		deadline := models.Deadline{
			UserID:   userID,
			Title:    f.Title,
			DueDate:  time.Unix(f.DueDate, 0),
			Amount:   amount,
			Priority: models.DeadlinePriority(f.Priority),
			Status:   models.DeadlineStatus(f.Status),
			Notes:    f.Notes,
			Source:   models.DeadlineSource(f.Source),
		}
		if err := db.Create(&deadline).Error; err != nil {
			return fmt.Errorf("fixtures: create deadline %s: %w", f.Title, err)
		}
	}
	return nil
}
