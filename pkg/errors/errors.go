package errors

import "errors"

// Error codes shared across the service. The synthesis pipeline codes cover
// its failure modes; the rest are the usual transport and storage categories.
const (
	CodeInvalidInput        = "invalid_input"
	CodeUnauthorized        = "unauthorized"
	CodeNotFound            = "not_found"
	CodeStorageError        = "storage_error"
	CodeTruncatedResponse   = "truncated_response"
	CodeContentBlocked      = "content_blocked"
	CodeMalformedResponse   = "malformed_response"
	CodeProviderUnavailable = "provider_unavailable"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// IsCode helps handlers differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf extracts the code from an AppError, or empty for foreign errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
