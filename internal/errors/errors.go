// Package errors provides custom error types for the ChapterFund API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrForbidden          = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Password reset errors.
var (
	ErrResetNotRequested = &AppError{Code: "RESET_NOT_REQUESTED", Message: "No password reset was requested for this email", StatusCode: http.StatusBadRequest}
	ErrResetNotVerified  = &AppError{Code: "RESET_NOT_VERIFIED", Message: "The reset code has not been verified", StatusCode: http.StatusBadRequest}
	ErrResetExpired      = &AppError{Code: "RESET_EXPIRED", Message: "The password reset request has expired", StatusCode: http.StatusGone}
	ErrInvalidOTP        = &AppError{Code: "INVALID_OTP", Message: "The verification code must be 6 digits", StatusCode: http.StatusBadRequest}
)

// Budget errors.
var (
	ErrBudgetNotFound = &AppError{Code: "BUDGET_NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrBudgetLocked   = &AppError{Code: "BUDGET_LOCKED", Message: "A locked budget cannot be modified", StatusCode: http.StatusConflict}
)

// Expense errors.
var (
	ErrExpenseNotFound         = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrInvalidStatusTransition = &AppError{Code: "INVALID_STATUS_TRANSITION", Message: "This status change is not allowed", StatusCode: http.StatusConflict}
	ErrExpenseStatusTerminal   = &AppError{Code: "EXPENSE_STATUS_TERMINAL", Message: "A completed or rejected expense cannot change status", StatusCode: http.StatusConflict}
	ErrExpenseNotEditable      = &AppError{Code: "EXPENSE_NOT_EDITABLE", Message: "Only draft or pending expenses can be edited", StatusCode: http.StatusConflict}
	ErrExpenseBudgetMissing    = &AppError{Code: "EXPENSE_BUDGET_MISSING", Message: "The referenced budget does not exist", StatusCode: http.StatusNotFound}
)

// Deadline errors.
var (
	ErrDeadlineNotFound = &AppError{Code: "DEADLINE_NOT_FOUND", Message: "Deadline not found", StatusCode: http.StatusNotFound}
	ErrDeadlineReadOnly = &AppError{Code: "DEADLINE_READ_ONLY", Message: "Deadlines published by chapter admins cannot be modified", StatusCode: http.StatusForbidden}
)

// Category errors.
var (
	ErrCategoryNotFound = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
)
