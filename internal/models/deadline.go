package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DeadlinePriority represents how urgent a deadline is
type DeadlinePriority string

const (
	DeadlinePriorityHigh   DeadlinePriority = "high"
	DeadlinePriorityMedium DeadlinePriority = "medium"
	DeadlinePriorityLow    DeadlinePriority = "low"
)

// DeadlineStatus represents a deadline's state
type DeadlineStatus string

const (
	DeadlineStatusUpcoming  DeadlineStatus = "upcoming"
	DeadlineStatusCompleted DeadlineStatus = "completed"
	DeadlineStatusOverdue   DeadlineStatus = "overdue"
)

// DeadlineSource identifies who published a deadline. Deadlines published
// by chapter admins are read-only through the API.
type DeadlineSource string

const (
	DeadlineSourceAdminEvent DeadlineSource = "admin_event"
	DeadlineSourceChapter    DeadlineSource = "chapter"
)

// Deadline represents a funding or reporting due date for the chapter
type Deadline struct {
	Base
	UserID   string           `gorm:"type:uuid;not null;index" json:"user_id"`
	Title    string           `gorm:"not null" json:"title"`
	DueDate  time.Time        `gorm:"not null" json:"due_date"`
	Amount   *decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount,omitempty"`
	Priority DeadlinePriority `gorm:"not null;default:medium" json:"priority"`
	Status   DeadlineStatus   `gorm:"not null;default:upcoming" json:"status"`
	Notes    string           `json:"notes,omitempty"`
	Source   DeadlineSource   `gorm:"not null;default:chapter" json:"source"`
}

// EffectiveStatus derives the reported status: an upcoming deadline whose
// due date has passed is overdue.
func (d *Deadline) EffectiveStatus(now time.Time) DeadlineStatus {
	if d.Status == DeadlineStatusUpcoming && d.DueDate.Before(now) {
		return DeadlineStatusOverdue
	}
	return d.Status
}
