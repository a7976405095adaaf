package models

import "time"

// PasswordReset tracks one in-flight password reset request.
//
// The OTP step is a demo stub: no code is ever generated or delivered, and
// verification accepts any syntactically valid 6-digit string. Do not ship
// this flow to production without a real code issuance channel.
type PasswordReset struct {
	Base
	Email     string    `gorm:"not null;index" json:"email"`
	Verified  bool      `gorm:"default:false" json:"verified"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}
