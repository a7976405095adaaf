package models

import "github.com/shopspring/decimal"

// BudgetStatus represents a budget's lifecycle state
type BudgetStatus string

const (
	BudgetStatusDraft     BudgetStatus = "draft"
	BudgetStatusSubmitted BudgetStatus = "submitted"
	BudgetStatusApproved  BudgetStatus = "approved"
	BudgetStatusLocked    BudgetStatus = "locked"
)

// Budget represents an allocation of chapter funds for an academic year.
// Expenses reference their budget via Expense.BudgetID; the budget keeps
// no denormalized expense list.
type Budget struct {
	Base
	UserID          string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name            string          `gorm:"not null" json:"name"`
	AcademicYear    string          `gorm:"not null;size:9" json:"academic_year"`
	AllocatedAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"allocated_amount"`
	Description     string          `json:"description,omitempty"`
	Status          BudgetStatus    `gorm:"not null;default:draft" json:"status"`

	Expenses []Expense `gorm:"foreignKey:BudgetID" json:"expenses,omitempty"`
}
