package htmlsketch

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// IOError represents read/write failures on input or output
	IOError ErrorType = "io_error"

	// DecodeError represents input that cannot be decoded to UTF-8 text
	DecodeError ErrorType = "decode_error"

	// ParseError represents input that cannot be turned into a tree
	ParseError ErrorType = "parse_error"

	// NetworkError represents fetch failures for URL input
	NetworkError ErrorType = "network_error"

	// ConfigError represents invalid configuration
	ConfigError ErrorType = "config_error"

	// SelectError represents invalid CSS or XPath expressions
	SelectError ErrorType = "select_error"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
	Code    string
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new I/O error
func NewIOError(message string, err error) *AppError {
	return &AppError{
		Type:    IOError,
		Message: message,
		Err:     err,
		Code:    "IO001",
	}
}

// NewDecodeError creates a new decoding error
func NewDecodeError(message string, err error) *AppError {
	return &AppError{
		Type:    DecodeError,
		Message: message,
		Err:     err,
		Code:    "DECODE001",
	}
}

// NewParseError creates a new parsing error
func NewParseError(message string, err error) *AppError {
	return &AppError{
		Type:    ParseError,
		Message: message,
		Err:     err,
		Code:    "PARSE001",
	}
}

// NewNetworkError creates a new network error
func NewNetworkError(message string, err error) *AppError {
	return &AppError{
		Type:    NetworkError,
		Message: message,
		Err:     err,
		Code:    "NET001",
	}
}

// NewConfigError creates a new configuration error
func NewConfigError(message string) *AppError {
	return &AppError{
		Type:    ConfigError,
		Message: message,
		Code:    "CONFIG001",
	}
}

// NewSelectError creates a new selector error
func NewSelectError(message string, err error) *AppError {
	return &AppError{
		Type:    SelectError,
		Message: message,
		Err:     err,
		Code:    "SELECT001",
	}
}

// InvariantError is the panic value used when a tree breaks the contract of
// the HTML parser, e.g. by containing a processing instruction.
type InvariantError struct {
	Kind    NodeKind
	Message string
}

func (e *InvariantError) Error() string {
	return "htmlsketch: " + e.Message
}

// IsType reports whether err wraps an *AppError of type t.
func IsType(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}
