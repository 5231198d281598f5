package errors

import (
	stderrors "errors"
	"fmt"
)

// ReportError is the structured error type for prettyresults.
// It carries a code, a category and an optional suggestion for the user.
type ReportError struct {
	// Code is the unique error code (e.g., "ERR_402_MISSING_NODE").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, IO, Validation, Internal).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable suggestion for the user.
	Suggestion string
}

// Error implements the error interface.
func (e *ReportError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *ReportError) Unwrap() error {
	return e.Cause
}

// Is matches another ReportError by code.
func (e *ReportError) Is(target error) bool {
	if t, ok := target.(*ReportError); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *ReportError) WithDetail(key, value string) *ReportError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion for the user.
func (e *ReportError) WithSuggestion(suggestion string) *ReportError {
	e.Suggestion = suggestion
	return e
}

// New creates a new ReportError with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *ReportError {
	return &ReportError{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates a ReportError from an existing error.
// The error's message becomes the ReportError message.
func Wrap(code string, err error) *ReportError {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *ReportError {
	return New(ErrCodeConfigInvalid, message, cause)
}

// IOError creates an I/O-related error.
func IOError(message string, cause error) *ReportError {
	return New(ErrCodeFileNotFound, message, cause)
}

// ValidationError creates a validation-related error.
func ValidationError(message string, cause error) *ReportError {
	return New(ErrCodeInvalidInput, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *ReportError {
	return New(ErrCodeInternal, message, cause)
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	var re *ReportError
	if stderrors.As(err, &re) {
		return re.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from the first ReportError in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var re *ReportError
	if stderrors.As(err, &re) {
		return re.Code
	}
	return ""
}

// GetCategory extracts the category from the first ReportError in the chain.
func GetCategory(err error) Category {
	var re *ReportError
	if stderrors.As(err, &re) {
		return re.Category
	}
	return ""
}
