package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus represents an expense's position in the approval pipeline
type ExpenseStatus string

const (
	ExpenseStatusDraft             ExpenseStatus = "draft"
	ExpenseStatusPendingReview     ExpenseStatus = "pending_review"
	ExpenseStatusApproved          ExpenseStatus = "approved"
	ExpenseStatusPaymentProcessing ExpenseStatus = "payment_processing"
	ExpenseStatusCompleted         ExpenseStatus = "completed"
	ExpenseStatusRejected          ExpenseStatus = "rejected"
)

// Expense represents a single chapter expenditure attached to a budget
type Expense struct {
	Base
	UserID      string          `gorm:"type:uuid;not null;index" json:"user_id"`
	BudgetID    string          `gorm:"type:uuid;not null;index" json:"budget_id"`
	Item        string          `gorm:"not null" json:"item"`
	Category    string          `gorm:"not null" json:"category"`
	Subcategory string          `json:"subcategory,omitempty"`
	Cost        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cost"`
	FundedBy    string          `json:"funded_by"`
	Comments    string          `json:"comments,omitempty"`
	Date        time.Time       `gorm:"not null" json:"date"`
	Status      ExpenseStatus   `gorm:"not null;default:draft" json:"status"`

	// StatusHistory is append-only; the newest entry's stage always equals
	// Status. Both are written inside the same transaction.
	StatusHistory []StatusEvent `gorm:"foreignKey:ExpenseID" json:"status_history,omitempty"`

	Budget Budget `gorm:"foreignKey:BudgetID" json:"budget,omitempty"`
}

// StatusEvent records one step of an expense's approval history
type StatusEvent struct {
	Base
	ExpenseID  string        `gorm:"type:uuid;not null;index" json:"expense_id"`
	Stage      ExpenseStatus `gorm:"not null" json:"stage"`
	OccurredAt time.Time     `gorm:"not null" json:"occurred_at"`
	Note       string        `json:"note,omitempty"`
}

// ApprovalStages is the ordered approval pipeline. Rejection is a side
// branch reachable from any non-terminal stage, not a pipeline position.
var ApprovalStages = []ExpenseStatus{
	ExpenseStatusDraft,
	ExpenseStatusPendingReview,
	ExpenseStatusApproved,
	ExpenseStatusPaymentProcessing,
	ExpenseStatusCompleted,
}

// StageIndex returns the position of a status in the approval pipeline,
// or -1 for rejected and unknown statuses.
func StageIndex(s ExpenseStatus) int {
	for i, stage := range ApprovalStages {
		if stage == s {
			return i
		}
	}
	return -1
}

// IsTerminal reports whether no further status changes are allowed.
func (s ExpenseStatus) IsTerminal() bool {
	return s == ExpenseStatusCompleted || s == ExpenseStatusRejected
}

// CanTransition reports whether an expense may move from one status to
// another: exactly one step forward along the pipeline, or to rejected
// from any non-terminal stage.
func CanTransition(from, to ExpenseStatus) bool {
	if from.IsTerminal() {
		return false
	}
	if to == ExpenseStatusRejected {
		return true
	}
	fromIdx, toIdx := StageIndex(from), StageIndex(to)
	if fromIdx == -1 || toIdx == -1 {
		return false
	}
	return toIdx == fromIdx+1
}
