package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken     = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authorization header required"}
	ErrInvalidToken     = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid or expired"}
	ErrForbidden        = &AppError{http.StatusForbidden, "FORBIDDEN", "Admin privileges required"}
	ErrInvalidRequest   = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError    = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrAccountNotFound     = &AppError{http.StatusUnprocessableEntity, "ACCOUNT_NOT_FOUND", "Account not found"}
	ErrIneligibleSource    = &AppError{http.StatusUnprocessableEntity, "INELIGIBLE_SOURCE", "A loan account cannot fund a transfer"}
	ErrInsufficientFunds   = &AppError{http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", "Insufficient funds"}
	ErrInvalidAccountType  = &AppError{http.StatusBadRequest, "INVALID_ACCOUNT_TYPE", "Account type must be Savings, Checking, or Loan"}
	ErrInvalidBalance      = &AppError{http.StatusBadRequest, "INVALID_BALANCE", "Opening balance must be greater than zero"}
	ErrCustomerNotFound    = &AppError{http.StatusUnprocessableEntity, "CUSTOMER_NOT_FOUND", "Customer not found"}
	ErrCustomerHasAccounts = &AppError{http.StatusConflict, "CUSTOMER_HAS_ACCOUNTS", "Customer still has linked accounts"}
	ErrImmutableField      = &AppError{http.StatusBadRequest, "IMMUTABLE_FIELD", "Field cannot be changed"}
	ErrDuplicateKey        = &AppError{http.StatusConflict, "DUPLICATE_KEY", "Identifier already exists, please retry"}
	ErrVersionConflict     = &AppError{http.StatusConflict, "VERSION_CONFLICT", "Resource was modified concurrently, please retry"}
	ErrStorage             = &AppError{http.StatusServiceUnavailable, "STORAGE_ERROR", "Storage failure, please retry"}
)
