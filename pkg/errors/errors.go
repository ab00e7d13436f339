// Package errors provides structured error handling for tabprep
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeNotFound represents a missing input file
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeEmptyInput represents an input with nothing to parse
	ErrorTypeEmptyInput ErrorType = "empty_input"
	// ErrorTypeParse represents content that is not valid delimited data
	ErrorTypeParse ErrorType = "parse"
	// ErrorTypeEmptyDataset represents a parsed input with zero data rows
	ErrorTypeEmptyDataset ErrorType = "empty_dataset"
	// ErrorTypeUnknownColumn represents references to columns the table lacks
	ErrorTypeUnknownColumn ErrorType = "unknown_column"
	// ErrorTypeEncoding represents categorical encoding failures
	ErrorTypeEncoding ErrorType = "encoding"
	// ErrorTypeUnsupportedStrategy represents an unknown strategy name
	ErrorTypeUnsupportedStrategy ErrorType = "unsupported_strategy"
	// ErrorTypeScaling represents numeric scaling failures
	ErrorTypeScaling ErrorType = "scaling"
	// ErrorTypeDomain represents values outside a transform's domain
	ErrorTypeDomain ErrorType = "domain"
)

// Sentinels for use with errors.Is. Matching is by ErrorType only.
var (
	ErrInternal            = &Error{Type: ErrorTypeInternal}
	ErrConfig              = &Error{Type: ErrorTypeConfig}
	ErrNotFound            = &Error{Type: ErrorTypeNotFound}
	ErrEmptyInput          = &Error{Type: ErrorTypeEmptyInput}
	ErrParse               = &Error{Type: ErrorTypeParse}
	ErrEmptyDataset        = &Error{Type: ErrorTypeEmptyDataset}
	ErrUnknownColumn       = &Error{Type: ErrorTypeUnknownColumn}
	ErrEncoding            = &Error{Type: ErrorTypeEncoding}
	ErrUnsupportedStrategy = &Error{Type: ErrorTypeUnsupportedStrategy}
	ErrScaling             = &Error{Type: ErrorTypeScaling}
	ErrDomain              = &Error{Type: ErrorTypeDomain}
)

// Common detail keys
const (
	DetailPath     = "path"
	DetailColumn   = "column"
	DetailColumns  = "columns"
	DetailStrategy = "strategy"
	DetailLine     = "line"
	DetailStep     = "step"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same type.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// Detail returns a detail value and whether it was set.
func (e *Error) Detail(key string) (interface{}, bool) {
	v, ok := e.Details[key]
	return v, ok
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// UnknownColumns builds the error reported when a column subset names
// columns the table does not have. All missing names are listed.
func UnknownColumns(missing []string) *Error {
	names := append([]string(nil), missing...)
	return &Error{
		Type:    ErrorTypeUnknownColumn,
		Message: "columns not found in table: " + strings.Join(names, ", "),
		Details: map[string]interface{}{DetailColumns: names},
		Stack:   captureStack(2),
	}
}

// UnsupportedStrategy builds the error for an unknown strategy name within
// the given family ("encoder" or "scaler").
func UnsupportedStrategy(family, name string) *Error {
	return &Error{
		Type:    ErrorTypeUnsupportedStrategy,
		Message: fmt.Sprintf("unsupported %s strategy %q", family, name),
		Details: map[string]interface{}{DetailStrategy: name},
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// TypeOf returns the type of the outermost *Error in err's chain, or
// ErrorTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
