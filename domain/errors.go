package domain

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeConfig          = "CONFIG_ERROR"
	ErrCodeInvalidInput    = "INVALID_INPUT"
	ErrCodeContentTooLarge = "CONTENT_TOO_LARGE"
	ErrCodeURLNotSupported = "URL_NOT_SUPPORTED"
	ErrCodeAnalysis        = "ANALYSIS_ERROR"
	ErrCodeOutput          = "OUTPUT_ERROR"
	ErrCodeStorage         = "STORAGE_ERROR"
	ErrCodeNotFound        = "NOT_FOUND"
)

// DomainError is the error type returned by citescan collaborators
type DomainError struct {
	Code    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// NewDomainError creates a DomainError with the given code
func NewDomainError(code, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, Cause: cause}
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *DomainError {
	return NewDomainError(ErrCodeConfig, message, cause)
}

// NewValidationError creates an invalid-input error
func NewValidationError(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidInput, message, nil)
}

// NewContentTooLargeError creates a size-limit error
func NewContentTooLargeError(message string) *DomainError {
	return NewDomainError(ErrCodeContentTooLarge, message, nil)
}

// NewAnalysisError creates an analysis error
func NewAnalysisError(message string, cause error) *DomainError {
	return NewDomainError(ErrCodeAnalysis, message, cause)
}

// NewOutputError creates an output error
func NewOutputError(message string, cause error) *DomainError {
	return NewDomainError(ErrCodeOutput, message, cause)
}

// NewStorageError creates a storage error
func NewStorageError(message string, cause error) *DomainError {
	return NewDomainError(ErrCodeStorage, message, cause)
}

// ErrorCode returns the code of the first DomainError in err's chain, or "" if none
func ErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
