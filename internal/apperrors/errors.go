package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
// A resource outside the caller's tenant scope is reported identically.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that valid input is illegal given the current state of
// the resource (e.g. reversing an already-reversed group, editing an approved
// voucher). The caller decides whether to retry with fresh state or abort.
var ErrConflict = errors.New("conflict with current resource state")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller lacks the required role for the operation.
var ErrForbidden = errors.New("forbidden")

// ErrConsistency indicates the ledger itself is inconsistent (an unbalanced
// trial balance, a posted-but-unbalanced group). This is never expected in
// correct operation; callers must escalate rather than retry.
var ErrConsistency = errors.New("ledger consistency violation")

// ErrInternal indicates an unexpected internal failure.
var ErrInternal = errors.New("internal error")

// AppError wraps a lower-level error with an HTTP-ish status code and message.
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

// NewAppError creates a new AppError wrapping the given error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
