package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
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
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrForbidden      = &AppError{Code: http.StatusForbidden, Message: "Forbidden"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrTokenExpired   = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}
	ErrInvalidToken   = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
)

// Billing counter errors. Every one of them leaves the cart and till state
// unchanged, so the operator can simply retry.
var (
	ErrCatalogUnavailable    = &AppError{Code: http.StatusServiceUnavailable, Message: "Menu catalog is unavailable"}
	ErrTillClosed            = &AppError{Code: http.StatusConflict, Message: "Till is closed"}
	ErrTillAlreadyOpen       = &AppError{Code: http.StatusConflict, Message: "Till is already open"}
	ErrTillAlreadyClosed     = &AppError{Code: http.StatusConflict, Message: "Till is already closed"}
	ErrEmptyCart             = &AppError{Code: http.StatusUnprocessableEntity, Message: "Cart is empty"}
	ErrNoPaymentMethod       = &AppError{Code: http.StatusUnprocessableEntity, Message: "Select a payment method"}
	ErrAuthenticationFailed  = &AppError{Code: http.StatusUnauthorized, Message: "Authentication failed"}
	ErrOrderSubmissionFailed = &AppError{Code: http.StatusBadGateway, Message: "Order could not be submitted"}
	ErrOrderInProgress       = &AppError{Code: http.StatusConflict, Message: "An order is being placed"}
	ErrPrintUnavailable      = &AppError{Code: http.StatusServiceUnavailable, Message: "Printer is unavailable"}
	ErrLineNotFound          = &AppError{Code: http.StatusNotFound, Message: "Cart line not found"}
	ErrMenuItemNotFound      = &AppError{Code: http.StatusNotFound, Message: "Menu item not found"}
	ErrHeldOrderNotFound     = &AppError{Code: http.StatusNotFound, Message: "Held order not found"}
	ErrOrderNotFound         = &AppError{Code: http.StatusNotFound, Message: "Order not found"}
	ErrOrdersUnavailable     = &AppError{Code: http.StatusBadGateway, Message: "Orders could not be loaded"}
)

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
