package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a DomainError for transport mapping.
type ErrorCode string

const (
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeUnavailable  ErrorCode = "SERVICE_UNAVAILABLE"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
)

// DomainError is an error carrying a transport-neutral classification.
// Reason narrows the code to a business kind (e.g. "ROOM_UNAVAILABLE").
type DomainError struct {
	Code    ErrorCode
	Reason  string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Reason
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *DomainError) Unwrap() error { return e.Err }

// Is matches another DomainError with the same code, and the same reason
// when the target carries one. This lets bare sentinels like
// &DomainError{Code: CodeConflict, Reason: "ROOM_UNAVAILABLE"} match any
// error built for that kind regardless of its message.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	if t.Code != e.Code {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// WithMessage returns a copy of e carrying msg.
func (e *DomainError) WithMessage(msg string) *DomainError {
	cp := *e
	cp.Message = msg
	return &cp
}

// Wrap returns a copy of e carrying msg and cause.
func (e *DomainError) Wrap(msg string, cause error) *DomainError {
	cp := *e
	cp.Message = msg
	cp.Err = cause
	return &cp
}

// NewNotFoundError creates a not-found error for the given entity.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", entity, id),
	}
}

// NewUnauthorizedError creates an unauthorized error.
func NewUnauthorizedError(msg string) *DomainError {
	return &DomainError{Code: CodeUnauthorized, Message: msg}
}

// NewForbiddenError creates a forbidden error.
func NewForbiddenError(msg string) *DomainError {
	return &DomainError{Code: CodeForbidden, Message: msg}
}

// NewUnavailableError reports that a dependency could not serve the request.
func NewUnavailableError(msg string, cause error) *DomainError {
	return &DomainError{Code: CodeUnavailable, Message: msg, Err: cause}
}

// AsDomainError extracts a *DomainError from err's chain.
func AsDomainError(err error) (*DomainError, bool) {
	var de *DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
