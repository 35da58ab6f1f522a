package service

import "errors"

var (
	// ErrInvalidCredentials covers both an unknown identifier and a
	// wrong password so callers cannot tell which field was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when no user matches a lookup.
	ErrUserNotFound = errors.New("user not found")
	// ErrUsernameTaken is returned when the username unique constraint fires.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned when the email unique constraint fires.
	ErrEmailTaken = errors.New("email already registered")
)

// ValidationError is a user-facing rejection of request input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}
