package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

// ErrorType is the machine-readable category carried in every error response
type ErrorType string

const (
	TypeValidation          ErrorType = "validation_error"
	TypeNotFound            ErrorType = "not_found"
	TypeDuplicateIdentifier ErrorType = "duplicate_identifier"
	TypeInsufficientStock   ErrorType = "insufficient_stock"
	TypeLedgerImbalance     ErrorType = "ledger_imbalance"
	TypeConflict            ErrorType = "conflict"
	TypeRateLimited         ErrorType = "rate_limited"
	TypeInternal            ErrorType = "internal_error"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Type    ErrorType    `json:"type"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Type: TypeNotFound, Message: "Resource not found"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Type: TypeValidation, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Type: TypeInternal, Message: "Internal server error"}
	ErrConflict       = &AppError{Code: http.StatusConflict, Type: TypeConflict, Message: "Resource already exists"}
	ErrTooManyRequest = &AppError{Code: http.StatusTooManyRequests, Type: TypeRateLimited, Message: "Too many requests"}
)

// NewAppError creates a new application error
func NewAppError(code int, errType ErrorType, message string) *AppError {
	return &AppError{
		Code:    code,
		Type:    errType,
		Message: message,
	}
}

// NewValidationError creates a validation error carrying per-field messages
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    TypeValidation,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewBadRequestError creates a validation error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    TypeValidation,
		Message: message,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Type:    TypeNotFound,
		Message: resource + " not found",
	}
}

// NewConflictError creates a conflict error with a custom message
func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Type:    TypeConflict,
		Message: message,
	}
}

// NewDuplicateIdentifierError reports a caller-supplied code or number that is already taken
func NewDuplicateIdentifierError(kind, value string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    TypeDuplicateIdentifier,
		Message: fmt.Sprintf("%s %s already exists", kind, value),
	}
}

// NewInsufficientStockError reports a stock-out that would drive the balance negative
func NewInsufficientStockError(itemName string, available, requested decimal.Decimal) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Type:    TypeInsufficientStock,
		Message: fmt.Sprintf("Insufficient stock for %s: available %s, requested %s", itemName, available.String(), requested.String()),
	}
}

// NewLedgerImbalanceError reports a voucher whose debits and credits differ
func NewLedgerImbalanceError(debit, credit decimal.Decimal) *AppError {
	return &AppError{
		Code:    http.StatusInternalServerError,
		Type:    TypeLedgerImbalance,
		Message: fmt.Sprintf("Voucher is not balanced: debit %s, credit %s", debit.StringFixed(2), credit.StringFixed(2)),
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// IsType reports whether err is an AppError of the given type
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == errType
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Type:    TypeInternal,
		Message: err.Error(),
	}
}
