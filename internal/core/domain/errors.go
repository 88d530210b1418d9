// Package domain defines the core domain models for securetoken.
package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a business domain error with a structured error code.
type DomainError struct {
	Code    string // Error code (e.g., "ST-REC-4040")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it is a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Record errors (REC).
var (
	// ErrRecordNotFound indicates the requested record was not found.
	ErrRecordNotFound = NewDomainError("ST-REC-4040", "record not found")

	// ErrRecordConflict indicates the record ID already exists.
	ErrRecordConflict = NewDomainError("ST-REC-4090", "record id conflict")

	// ErrRecordVersionConflict indicates an optimistic lock conflict.
	ErrRecordVersionConflict = NewDomainError("ST-REC-4091", "version conflict, please retry")

	// ErrRecordValidation indicates record data validation failed.
	ErrRecordValidation = NewDomainError("ST-REC-4001", "record validation failed")

	// ErrTokenValueConflict indicates a stored token value collision.
	ErrTokenValueConflict = NewDomainError("ST-REC-4092", "token value conflict")
)

// Token field errors (TOKN).
var (
	// ErrUnknownTokenField indicates the attribute was never declared.
	ErrUnknownTokenField = NewDomainError("ST-TOKN-4040", "token field not declared")
)

// System errors (SYS).
var (
	// ErrStorageError indicates a storage layer error.
	ErrStorageError = NewDomainError("ST-SYS-5001", "storage error")
)
