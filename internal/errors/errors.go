// Package errors provides the error taxonomy for the expense tracker API.
// Every service-layer failure is an *AppError so the HTTP layer can map it to a
// status code without ever leaking storage details to clients.
package errors

import (
	stderrors "errors"
	"net/http"
)

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

// Is reports whether target carries the same code, so that a wrapped or
// re-messaged copy still matches its sentinel.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

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

// Authentication errors. These belong to the HTTP layer, not the domain core.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
)

// General errors.
var (
	ErrInvalidInput     = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrInvalidReference = &AppError{Code: "INVALID_REFERENCE", Message: "Invalid reference: the referenced resource does not exist", StatusCode: http.StatusBadRequest}
	ErrNotFound         = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrForbidden        = &AppError{Code: "FORBIDDEN", Message: "Not authorized for this resource", StatusCode: http.StatusForbidden}
	ErrInternalServer   = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUsername = &AppError{Code: "DUPLICATE_USERNAME", Message: "Username already exists", StatusCode: http.StatusConflict}
	ErrDuplicateEmail    = &AppError{Code: "DUPLICATE_EMAIL", Message: "Email already exists", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound         = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrDuplicateCategoryName    = &AppError{Code: "DUPLICATE_CATEGORY_NAME", Message: "Category with the same name already exists", StatusCode: http.StatusConflict}
	ErrDuplicateDefaultCategory = &AppError{Code: "DUPLICATE_DEFAULT_CATEGORY", Message: "User already has a default category", StatusCode: http.StatusConflict}
	ErrDefaultCategoryImmutable = &AppError{Code: "DEFAULT_CATEGORY_IMMUTABLE", Message: "Not allowed to edit or delete default category", StatusCode: http.StatusConflict}
	// ErrDefaultCategoryMissing means the one-default-per-user invariant is broken.
	// It is a consistency fault, not a user error.
	ErrDefaultCategoryMissing = &AppError{Code: "DEFAULT_CATEGORY_MISSING", Message: "Default category not found", StatusCode: http.StatusInternalServerError}
)

// Expense errors.
var (
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
)

// ErrorKind is the coarse classification of an error, independent of its code.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindForbidden  ErrorKind = "forbidden"
	KindConflict   ErrorKind = "conflict"
	KindInternal   ErrorKind = "internal"
	// KindUnauthorized covers authentication failures raised by the HTTP layer.
	KindUnauthorized ErrorKind = "unauthorized"
)

// Kind classifies err. Anything that is not an *AppError, or whose status is
// outside the expected classes, is an internal fault.
func Kind(err error) ErrorKind {
	var appErr *AppError
	if !stderrors.As(err, &appErr) {
		return KindInternal
	}
	switch appErr.StatusCode {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusConflict:
		return KindConflict
	default:
		return KindInternal
	}
}
