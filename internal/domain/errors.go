package domain

import (
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Pipeline specific errors
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrExtractionFailed  ErrorCode = "EXTRACTION_FAILED"
	ErrSynthesisFailed   ErrorCode = "SYNTHESIS_FAILED"
	ErrSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	ErrLLMServiceError   ErrorCode = "LLM_SERVICE_ERROR"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// UnsupportedFormatError is returned by the extraction dispatcher when a
// file extension does not map to any known format adapter.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported document format: %q", e.Extension)
}

func NewUnsupportedFormatError(extension string) *UnsupportedFormatError {
	return &UnsupportedFormatError{Extension: extension}
}

// ExtractionError is returned by a format adapter when the input bytes are
// malformed or an IO failure prevents text extraction. It is fatal per
// document and never retried.
type ExtractionError struct {
	Format SourceFormat
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract text from %s document: %v", e.Format, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

func NewExtractionError(format SourceFormat, cause error) *ExtractionError {
	return &ExtractionError{Format: format, Cause: cause}
}

// SynthesisError is returned when every repair and fallback stage has been
// exhausted without producing a single valid question. RawReply carries the
// original model output for diagnostics.
type SynthesisError struct {
	RawReply string
}

func (e *SynthesisError) Error() string {
	return "could not synthesize any quiz questions from the model reply"
}

func NewSynthesisError(rawReply string) *SynthesisError {
	return &SynthesisError{RawReply: rawReply}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewSessionNotFoundError(sessionID string) *DomainError {
	return NewError(ErrSessionNotFound, fmt.Sprintf("quiz session not found: %s", sessionID), nil)
}

// NewLLMServiceError wraps a transport or rate-limit error from the
// completion service. The cause is surfaced verbatim, never reinterpreted.
func NewLLMServiceError(err error) *DomainError {
	return NewError(ErrLLMServiceError, "completion service call failed", err)
}
