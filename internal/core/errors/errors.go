package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors - these represent business rule violations
var (
	// Authentication
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Dataset handling
	ErrInvalidPeriod      = errors.New("period must be \"current\" or \"prior\"")
	ErrDatasetNotFound    = errors.New("dataset not found")
	ErrNoCurrentDataset   = errors.New("no current-period dataset loaded")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrEmptyUpload        = errors.New("uploaded file has no rows")
	ErrMissingUploadField = errors.New("multipart field \"file\" is required")

	// Generic
	ErrNotFound    = errors.New("resource not found")
	ErrInternal    = errors.New("internal server error")
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limit exceeded")
)

// ComputationFallbackMessage is shown when an unexpected failure carries no
// recognized message of its own.
const ComputationFallbackMessage = "report computation failed unexpectedly"

// SchemaError reports required columns that could not be resolved against an
// uploaded table's headers. AvailableSheets lists the source's sheet or table
// names for diagnostics; the error is surfaced verbatim and never retried.
type SchemaError struct {
	MissingColumns  []string
	AvailableSheets []string
}

func (e *SchemaError) Error() string {
	msg := "required columns missing: " + strings.Join(e.MissingColumns, ", ")
	if len(e.AvailableSheets) > 0 {
		msg += " (available sheets: " + strings.Join(e.AvailableSheets, ", ") + ")"
	}
	return msg
}

// SheetNotFoundError reports that the configured sheet is absent from an
// uploaded workbook.
type SheetNotFoundError struct {
	Sheet           string
	AvailableSheets []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found (available sheets: %s)",
		e.Sheet, strings.Join(e.AvailableSheets, ", "))
}

// DisplayMessage converts a computation failure into the single string shown
// to the user: a recognized error's own message, or the generic fallback for
// anything unexpected.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}

	var schemaErr *SchemaError
	if errors.As(err, &schemaErr) {
		return schemaErr.Error()
	}
	var sheetErr *SheetNotFoundError
	if errors.As(err, &sheetErr) {
		return sheetErr.Error()
	}

	switch {
	case errors.Is(err, ErrNoCurrentDataset),
		errors.Is(err, ErrEmptyUpload),
		errors.Is(err, ErrUnsupportedFormat):
		return err.Error()
	}

	return ComputationFallbackMessage
}

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

func NewUnsupportedMediaError(message string) *AppError {
	return &AppError{
		Err:        ErrUnsupportedFormat,
		Message:    message,
		Code:       "UNSUPPORTED_FORMAT",
		StatusCode: 415,
	}
}

func NewSchemaAppError(err *SchemaError) *AppError {
	return &AppError{
		Err:        err,
		Message:    err.Error(),
		Code:       "SCHEMA_ERROR",
		StatusCode: 422,
		Details: map[string]interface{}{
			"missingColumns":  err.MissingColumns,
			"availableSheets": err.AvailableSheets,
		},
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
