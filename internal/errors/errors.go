package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"csvlens/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return &AppError{
			Code:    appErr.Code,
			Message: message,
			Cause:   err,
		}
	}
	return &AppError{
		Code:    codeFor(err),
		Message: message,
		Cause:   err,
	}
}

// GetCode returns the error code if it's an AppError, otherwise returns "UNKNOWN"
func GetCode(err error) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return "UNKNOWN"
}

// Predefined error codes
const (
	CodeConfigInvalid   = "CONFIG_INVALID"
	CodeParseError      = "PARSE_ERROR"
	CodeImputationError = "IMPUTATION_ERROR"
	CodeInvalidArgument = "INVALID_ARGUMENT"
	CodeInvalidInput    = "INVALID_INPUT"
	CodeUploadTooLarge  = "UPLOAD_TOO_LARGE"
	CodeInternalError   = "INTERNAL_ERROR"
)

// FromDomain classifies a pipeline error into an AppError carrying the matching code.
// The message is the domain error text, which is safe to show to the user.
func FromDomain(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	code := codeFor(err)
	message := err.Error()
	if code == CodeInternalError {
		message = "internal error"
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

func codeFor(err error) string {
	switch {
	case core.IsParseError(err):
		return CodeParseError
	case core.IsImputationError(err):
		return CodeImputationError
	case core.IsInvalidArgumentError(err):
		return CodeInvalidArgument
	default:
		return CodeInternalError
	}
}

// HTTPStatus maps an error code onto a response status
func HTTPStatus(code string) int {
	switch code {
	case CodeParseError, CodeInvalidArgument, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeImputationError:
		return http.StatusUnprocessableEntity
	case CodeUploadTooLarge:
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func InvalidInput(message string) *AppError {
	return New(CodeInvalidInput, message)
}

func UploadTooLarge(limit int64) *AppError {
	return New(CodeUploadTooLarge, fmt.Sprintf("upload exceeds the %d MB limit", limit/(1024*1024)))
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
