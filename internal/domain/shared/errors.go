package shared

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes shared by every bounded context
const (
	CodeNotFound       = "NOT_FOUND"
	CodeNoActiveOrder  = "NO_ACTIVE_ORDER"
	CodeLineNotInOrder = "LINE_NOT_IN_ORDER"
	CodeValidation     = "VALIDATION_ERROR"
	CodeInfrastructure = "INFRASTRUCTURE_ERROR"
	CodeInvalidState   = "INVALID_STATE"
	CodeInvalidInput   = "INVALID_INPUT"
	CodeAlreadyExists  = "ALREADY_EXISTS"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code, so callers can use
// errors.Is(err, shared.ErrNotFound) against errors built with a custom message.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound       = NewDomainError(CodeNotFound, "Resource not found")
	ErrNoActiveOrder  = NewDomainError(CodeNoActiveOrder, "You do not have an active order")
	ErrLineNotInOrder = NewDomainError(CodeLineNotInOrder, "This item was not in your cart")
	ErrInvalidState   = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrInvalidInput   = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrAlreadyExists  = NewDomainError(CodeAlreadyExists, "Resource already exists")
)

// FieldError is a single field-level validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every field that failed validation
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

// NewValidationError creates a validation error from field failures
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends a field failure
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasErrors reports whether any field failed
func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ErrValidation is the sentinel matched by every *ValidationError
var ErrValidation = NewDomainError(CodeValidation, "Validation failed")

// InfrastructureError wraps a persistence, cache or broker failure.
// The core never retries these; the caller decides.
type InfrastructureError struct {
	Op  string
	Err error
}

// NewInfrastructureError wraps err with the failed operation name
func NewInfrastructureError(op string, err error) *InfrastructureError {
	return &InfrastructureError{Op: op, Err: err}
}

// Error implements the error interface
func (e *InfrastructureError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause
func (e *InfrastructureError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrInfrastructure) match any *InfrastructureError
func (e *InfrastructureError) Is(target error) bool {
	return target == ErrInfrastructure
}

// ErrInfrastructure is the sentinel matched by every *InfrastructureError
var ErrInfrastructure = NewDomainError(CodeInfrastructure, "Storage is temporarily unavailable")
