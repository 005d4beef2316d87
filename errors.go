package permkit

import (
	"errors"
	"fmt"
)

// Sentinel errors for PermKit operations.
var (
	// ErrNotFound is returned when a user, role, or delegation does not exist.
	ErrNotFound = errors.New("permkit: not found")

	// ErrStoreFailure is returned when the store gateway fails for reasons
	// other than a missing record.
	ErrStoreFailure = errors.New("permkit: store failure")

	// ErrNoUserID is returned when a user ID is not found in context.
	ErrNoUserID = errors.New("permkit: no user ID in context")
)

// Error wraps a sentinel error with additional context.
type Error struct {
	Err      error  // Underlying sentinel error
	Message  string // Additional context
	UserID   string // User involved (if applicable)
	RoleID   string // Role involved (if applicable)
	Resource string // Resource involved (if applicable)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a target error.
func (e *Error) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewError creates a new Error with context.
func NewError(err error, message string) *Error {
	return &Error{
		Err:     err,
		Message: message,
	}
}

// WithUser adds user information to the error.
func (e *Error) WithUser(userID string) *Error {
	e.UserID = userID
	return e
}

// WithRole adds role information to the error.
func (e *Error) WithRole(roleID string) *Error {
	e.RoleID = roleID
	return e
}

// WithResource adds resource information to the error.
func (e *Error) WithResource(resource string) *Error {
	e.Resource = resource
	return e
}

// IsNotFound checks if an error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsStoreFailure checks if an error indicates a failing store gateway.
func IsStoreFailure(err error) bool {
	return errors.Is(err, ErrStoreFailure)
}
