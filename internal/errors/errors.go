package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidInput        ErrorCode = "invalid_input"
	InvalidAmount       ErrorCode = "invalid_amount"
	InvalidCredentials  ErrorCode = "invalid_credentials"
	AccountNotFound     ErrorCode = "account_not_found"
	DuplicateAccount    ErrorCode = "duplicate_account"
	DuplicateEmail      ErrorCode = "duplicate_email"
	InsufficientBalance ErrorCode = "insufficient_balance"
	GenerationExhausted ErrorCode = "generation_exhausted"
	Unauthorized        ErrorCode = "unauthorized"
	InternalError       ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	e.Details = details
	return e
}

// HTTPStatus maps an error code to the response status used at the boundary.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidInput, InvalidAmount:
		return http.StatusBadRequest
	case InvalidCredentials, Unauthorized:
		return http.StatusUnauthorized
	case AccountNotFound:
		return http.StatusNotFound
	case DuplicateAccount, DuplicateEmail:
		return http.StatusConflict
	case InsufficientBalance:
		return http.StatusUnprocessableEntity
	case GenerationExhausted:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrInvalidAmount          = NewAppError(InvalidAmount, "amount must be a valid number greater than zero")
	ErrInvalidCredentials     = NewAppError(InvalidCredentials, "invalid email or password")
	ErrAccountNotFound        = NewAppError(AccountNotFound, "account not found")
	ErrDuplicateAccount       = NewAppError(DuplicateAccount, "account already exists")
	ErrDuplicateEmail         = NewAppError(DuplicateEmail, "email already in use")
	ErrInsufficientBalance    = NewAppError(InsufficientBalance, "insufficient balance")
	ErrGenerationExhausted    = NewAppError(GenerationExhausted, "could not generate a unique account number")
	ErrUnauthorized           = NewAppError(Unauthorized, "missing or invalid access token")
	ErrCannotBeginTransaction = NewAppError(InternalError, "cannot begin transaction from a transactional store")
)
