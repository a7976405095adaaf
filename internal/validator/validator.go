// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var (
	academicYearRegex = regexp.MustCompile(`^\d{4}-\d{4}$`)
	otpRegex          = regexp.MustCompile(`^\d{6}$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("budget_status", validateBudgetStatus)
		_ = v.RegisterValidation("expense_status", validateExpenseStatus)
		_ = v.RegisterValidation("deadline_priority", validateDeadlinePriority)
		_ = v.RegisterValidation("deadline_status", validateDeadlineStatus)
		_ = v.RegisterValidation("academic_year", validateAcademicYear)
		_ = v.RegisterValidation("otp_code", validateOTPCode)
		_ = v.RegisterValidation("positive_amount", validatePositiveAmount)
	}
}

func validateBudgetStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "draft", "submitted", "approved", "locked":
		return true
	}
	return false
}

func validateExpenseStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "draft", "pending_review", "approved", "payment_processing", "completed", "rejected":
		return true
	}
	return false
}

func validateDeadlinePriority(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "high", "medium", "low":
		return true
	}
	return false
}

func validateDeadlineStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "upcoming", "completed", "overdue":
		return true
	}
	return false
}

// validateAcademicYear accepts "YYYY-YYYY" where the second year is the first
// plus one, e.g. "2024-2025".
func validateAcademicYear(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if !academicYearRegex.MatchString(s) {
		return false
	}
	parts := strings.SplitN(s, "-", 2)
	from, _ := strconv.Atoi(parts[0])
	to, _ := strconv.Atoi(parts[1])
	return to == from+1
}

func validateOTPCode(fl validator.FieldLevel) bool {
	return otpRegex.MatchString(fl.Field().String())
}

// validatePositiveAmount checks decimal fields that must be strictly positive.
func validatePositiveAmount(fl validator.FieldLevel) bool {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}
	return d.IsPositive()
}
