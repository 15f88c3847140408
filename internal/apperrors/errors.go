package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found in the caller's tenant.
var ErrNotFound = errors.New("resource not found")

// ErrUnauthorized indicates an attempt to touch an entity owned by another tenant.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidState indicates the entity is not in a state that allows the operation.
var ErrInvalidState = errors.New("invalid state")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrAlreadyMatched indicates an active reconciliation record already links the pair.
var ErrAlreadyMatched = errors.New("already matched")

// ErrMissingMapping indicates a bank account IBAN has no analytic ledger mapping.
var ErrMissingMapping = fmt.Errorf("%w: missing analytic mapping", ErrValidation)

// ErrDependencyFailure indicates a collaborator (ledger, regeneration) failed.
var ErrDependencyFailure = errors.New("dependency failure")

// AppError carries an HTTP-ish status code alongside the wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with a message.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationError wraps ErrValidation with a message.
func NewValidationError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewDependencyError wraps ErrDependencyFailure around the collaborator's error.
func NewDependencyError(message string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrDependencyFailure, message, err)
}
