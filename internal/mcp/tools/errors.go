package tools

import (
	"fmt"
	"log/slog"
)

// Error codes for MCP tool responses.
const (
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeParseError    = "PARSE_ERROR"
	ErrCodeQueryError    = "QUERY_ERROR"
	ErrCodeLimitExceeded = "LIMIT_EXCEEDED"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}

// ErrParse wraps a document decode failure.
func ErrParse(label string, cause error) error {
	err := &CodedError{
		Code:    ErrCodeParseError,
		Message: fmt.Sprintf("failed to parse %s", label),
		Cause:   cause,
	}
	slog.Warn("tool input parse error",
		slog.String("label", label),
		slog.String("error", cause.Error()),
	)
	return err
}

// ErrQuery wraps a jq compilation or evaluation failure.
func ErrQuery(cause error) error {
	return &CodedError{
		Code:    ErrCodeQueryError,
		Message: "jq expression failed",
		Cause:   cause,
	}
}

// ErrLimitExceeded creates a limit violation error.
func ErrLimitExceeded(message string) error {
	return &CodedError{
		Code:    ErrCodeLimitExceeded,
		Message: message,
	}
}
