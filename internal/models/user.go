package models

import "time"

// UserRole represents a chapter member's role
type UserRole string

const (
	UserRoleAdmin     UserRole = "admin"
	UserRoleTreasurer UserRole = "treasurer"
	UserRoleMember    UserRole = "member"
)

// User represents a chapter member in the database
type User struct {
	Base
	Email               string     `gorm:"uniqueIndex;not null" json:"email"`
	Password            string     `gorm:"not null" json:"-"`
	Name                string     `json:"name"`
	ChapterName         string     `json:"chapter_name"`
	Role                UserRole   `gorm:"not null;default:treasurer" json:"role"`
	Timezone            string     `gorm:"default:UTC" json:"timezone"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`

	Budgets   []Budget   `gorm:"foreignKey:UserID" json:"budgets,omitempty"`
	Expenses  []Expense  `gorm:"foreignKey:UserID" json:"expenses,omitempty"`
	Deadlines []Deadline `gorm:"foreignKey:UserID" json:"deadlines,omitempty"`
}
