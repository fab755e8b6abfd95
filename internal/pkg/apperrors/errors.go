package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")

	// Authentication errors
	ErrUnauthenticated = errors.New("authentication required")
	ErrTokenExpired    = errors.New("token expired")
	ErrTokenInvalid    = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidEmail     = errors.New("invalid email format")

	// Upstream collaborator errors
	ErrUpstreamFailure = errors.New("upstream service failure")
)

// OTP errors
var (
	ErrOTPNotFound         = errors.New("no OTP requested for this email")
	ErrOTPExpired          = errors.New("OTP has expired")
	ErrOTPAttemptsExceeded = errors.New("too many failed attempts")
	ErrOTPMismatch         = errors.New("invalid OTP")
)

// User errors
var (
	ErrUserNotFound = errors.New("user not found")
)

// Community errors
var (
	ErrCommunityNotFound = errors.New("community not found")
	ErrNotFollower       = errors.New("user does not follow this community")
)

// Post errors
var (
	ErrPostNotFound    = errors.New("post not found")
	ErrCommentNotFound = errors.New("comment not found")
)

// Group errors
var (
	ErrGroupNotFound    = errors.New("group not found")
	ErrAlreadyMember    = errors.New("user is already a member of this group")
	ErrNotMember        = errors.New("user is not a member of this group")
	ErrAdminCannotLeave = errors.New("group admin cannot leave the group")
)

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
	return &CustomError{Err: err, Message: message}
}

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewForbiddenError creates a new custom error for permission denied with a message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{Err: ErrValidationFailed, Message: message}
}

// NewUpstreamError wraps a collaborator failure; the detail stays server-side
func NewUpstreamError(message string, err error) error {
	return &CustomError{Err: ErrUpstreamFailure, Message: message + ": " + err.Error()}
}
