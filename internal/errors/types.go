package errors

import (
	"fmt"
	"strings"
)

// CmakesrcError is implemented by every error that carries a code and
// user-facing hints
type CmakesrcError interface {
	error
	ErrorCode() ErrorCode
	Location() SourceLocation
	Context() map[string]interface{}
	Suggestions() []string
	Unwrap() error
}

// ErrorCode classifies what went wrong
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota
	ConfigurationErrorCode
	ValidationErrorCode
	ResolutionErrorCode
	GenerationErrorCode
	TemplateErrorCode
	FileSystemErrorCode
)

var errorCodeNames = map[ErrorCode]string{
	ConfigurationErrorCode: "ConfigurationError",
	ValidationErrorCode:    "ValidationError",
	ResolutionErrorCode:    "ResolutionError",
	GenerationErrorCode:    "GenerationError",
	TemplateErrorCode:      "TemplateError",
	FileSystemErrorCode:    "FileSystemError",
}

func (e ErrorCode) String() string {
	if name, ok := errorCodeNames[e]; ok {
		return name
	}
	return "UnknownError"
}

// SourceLocation points at a file, and optionally a line, an error is about
type SourceLocation struct {
	File string
	Line int
}

func (s SourceLocation) String() string {
	switch {
	case s.File == "":
		return "unknown location"
	case s.Line == 0:
		return s.File
	default:
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	}
}

// IsEmpty reports whether no file is set
func (s SourceLocation) IsEmpty() bool {
	return s.File == ""
}

// BaseError is the common CmakesrcError implementation the typed errors embed
type BaseError struct {
	Code        ErrorCode
	Message     string
	Loc         SourceLocation
	Cause       error
	ContextData map[string]interface{}
	Hints       []string
}

// New creates an error with code and message
func New(code ErrorCode, message string) *BaseError {
	return &BaseError{Code: code, Message: message}
}

// Wrap creates an error with code and message caused by cause
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	err := New(code, message)
	err.Cause = cause
	return err
}

func (e *BaseError) Error() string {
	var b strings.Builder
	if !e.Loc.IsEmpty() {
		b.WriteString(e.Loc.String())
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *BaseError) ErrorCode() ErrorCode            { return e.Code }
func (e *BaseError) Location() SourceLocation        { return e.Loc }
func (e *BaseError) Context() map[string]interface{} { return e.ContextData }
func (e *BaseError) Suggestions() []string           { return e.Hints }
func (e *BaseError) Unwrap() error                   { return e.Cause }

// WithLocation sets the file the error is about
func (e *BaseError) WithLocation(loc SourceLocation) *BaseError {
	e.Loc = loc
	return e
}

// WithContext records a key/value shown under "Context" in reports
func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.ContextData == nil {
		e.ContextData = make(map[string]interface{})
	}
	e.ContextData[key] = value
	return e
}

// WithSuggestions appends hints for fixing the error
func (e *BaseError) WithSuggestions(suggestions ...string) *BaseError {
	e.Hints = append(e.Hints, suggestions...)
	return e
}

// MultipleErrors collects every problem found during one validation pass
type MultipleErrors struct {
	Errors []CmakesrcError
}

// NewMultipleErrors creates an empty collection
func NewMultipleErrors() *MultipleErrors {
	return &MultipleErrors{}
}

// Add appends err to the collection
func (e *MultipleErrors) Add(err CmakesrcError) {
	e.Errors = append(e.Errors, err)
}

func (e *MultipleErrors) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	}

	lines := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		lines[i] = fmt.Sprintf("  %d. %s", i+1, err.Error())
	}
	return fmt.Sprintf("multiple errors (%d total):\n%s", len(e.Errors), strings.Join(lines, "\n"))
}

// ErrorCode is the code of the first collected error
func (e *MultipleErrors) ErrorCode() ErrorCode {
	if len(e.Errors) == 0 {
		return UnknownErrorCode
	}
	return e.Errors[0].ErrorCode()
}

// Suggestions joins the hints of all collected errors
func (e *MultipleErrors) Suggestions() []string {
	var suggestions []string
	for _, err := range e.Errors {
		suggestions = append(suggestions, err.Suggestions()...)
	}
	return suggestions
}

// Unwrap exposes every collected error to errors.Is and errors.As
func (e *MultipleErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}
