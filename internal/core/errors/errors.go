package errors

import (
	"errors"
	"fmt"
)

// Domain errors - these represent business rule violations
var (
	// Authentication & Authorization
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("action forbidden")

	// Calendar configuration
	ErrMalformedTimeRange   = errors.New("malformed time range, expected HH:MM-HH:MM")
	ErrInvalidTimeOfDay     = errors.New("time of day out of range")
	ErrIntervalNotAscending = errors.New("interval start must be before interval end")
	ErrOverlappingIntervals = errors.New("business-hour intervals overlap")
	ErrInvalidWeekday       = errors.New("invalid weekday name")
	ErrInvalidHolidayDate   = errors.New("invalid holiday date, expected YYYY-MM-DD")
	ErrHolidayNotFound      = errors.New("holiday not found")

	// Timeline & attribution
	ErrInvalidTimeline       = errors.New("timeline has no creation instant")
	ErrUnknownClassification = errors.New("unknown interaction classification")
	ErrUnparseableTimestamp  = errors.New("unparseable event timestamp")

	// Analysis jobs
	ErrJobNotFound     = errors.New("analysis job not found")
	ErrTicketNotFound  = errors.New("ticket not found")
	ErrEmptyTicketList = errors.New("at least one ticket ID is required")

	// Vendor API
	ErrVendorUnavailable = errors.New("vendor API unavailable")
	ErrVendorRejected    = errors.New("vendor API rejected the request")

	// Generic
	ErrNotFound    = errors.New("resource not found")
	ErrInternal    = errors.New("internal server error")
	ErrBadRequest  = errors.New("bad request")
	ErrConflict    = errors.New("resource conflict")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// AppError wraps errors with additional context for HTTP responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
	Details    map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Message:    message,
		Code:       "UNAUTHORIZED",
		StatusCode: 401,
	}
}

func NewNotFoundError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "NOT_FOUND",
		StatusCode: 404,
	}
}

func NewConflictError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "CONFLICT",
		StatusCode: 409,
	}
}

func NewValidationError(err error, message string, details map[string]interface{}) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "VALIDATION_ERROR",
		StatusCode: 422,
		Details:    details,
	}
}

func NewVendorError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "VENDOR_ERROR",
		StatusCode: 502,
	}
}

func NewRateLimitError() *AppError {
	return &AppError{
		Err:        ErrRateLimited,
		Message:    "Too many requests. Please try again later.",
		Code:       "RATE_LIMITED",
		StatusCode: 429,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Err:        err,
		Message:    "An unexpected error occurred",
		Code:       "INTERNAL_ERROR",
		StatusCode: 500,
	}
}

// ValidationErrors holds multiple field validation errors
type ValidationErrors struct {
	Errors map[string][]string `json:"errors"`
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make(map[string][]string),
	}
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors[field] = append(v.Errors[field], message)
}

func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

func (v *ValidationErrors) Error() string {
	return fmt.Sprintf("validation failed: %d field(s) have errors", len(v.Errors))
}
