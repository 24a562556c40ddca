package apperrors

import "errors"

// Common errors
var (
	// Input errors
	ErrInvalidInput     = errors.New("invalid input")
	ErrValidationFailed = errors.New("validation failed")

	// Resource errors
	ErrNotFound            = errors.New("resource not found")
	ErrDuplicateSubject    = errors.New("subject already exists")
	ErrDuplicateAssignment = errors.New("assignment already exists")
	ErrSubjectNotFound     = errors.New("subject not found")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrExaminationNotFound = errors.New("examination not found")
	ErrSemesterNotFound    = errors.New("semester not found")

	// Storage errors
	ErrMigrationFailure   = errors.New("schema migration failed")
	ErrPersistenceFailure = errors.New("persistence failure")
)

// Is returns whether target matches any of the errors in errList
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}

	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// NewInvalidInputError creates a new custom error for rejected input with a message
func NewInvalidInputError(message string) error {
	return &CustomError{
		Err:     ErrInvalidInput,
		Message: message,
	}
}

// NewNotFoundError creates a new custom error for missing resources with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// NewMigrationError wraps a failed schema migration step
func NewMigrationError(err error, message string) error {
	return &CustomError{
		Err:     errors.Join(ErrMigrationFailure, err),
		Message: message,
	}
}
