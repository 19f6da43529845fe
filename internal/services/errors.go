package services

import "errors"

// Error categories. Every error a service returns on purpose wraps exactly one
// of these; anything else is an infrastructure failure.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
	ErrUnavailable     = errors.New("unavailable")
)

var (
	ErrEmailTaken             = newError(ErrConflict, "email already registered")
	ErrInvalidCredentials     = newError(ErrUnauthenticated, "invalid email or password")
	ErrUserNotFound           = newError(ErrNotFound, "user not found")
	ErrTaskNotFound           = newError(ErrNotFound, "task not found")
	ErrAssigneeNotFound       = newError(ErrNotFound, "assignee not found")
	ErrNoAssigneeCandidates   = newError(ErrNotFound, "no other users available to assign")
	ErrSelfAssignment         = newError(ErrValidation, "a task cannot be assigned to its author")
	ErrNotTaskAuthor          = newError(ErrForbidden, "only the task author can perform this action")
	ErrAIServiceNotConfigured = newError(ErrUnavailable, "AI service is not configured")
)

// categorizedError is a sentinel whose message is safe to show to clients
type categorizedError struct {
	category error
	message  string
}

func newError(category error, message string) error {
	return &categorizedError{category: category, message: message}
}

func (e *categorizedError) Error() string {
	return e.message
}

func (e *categorizedError) Unwrap() error {
	return e.category
}

// ValidationError names the input field that failed validation
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
