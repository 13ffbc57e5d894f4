package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// MetagenError defines the base interface for all metagen errors
type MetagenError interface {
	error
	ErrorCode() ErrorCode
	Category() Category
	Context() map[string]interface{}
	Suggestions() []string
	Unwrap() error
}

// ErrorCode represents the type of error that occurred
type ErrorCode int

const (
	UnknownErrorCode ErrorCode = iota

	// Model configuration errors
	DuplicateObjectErrorCode
	DuplicatePropertyErrorCode
	UnknownPropertyErrorCode
	UnknownObjectErrorCode
	MissingDependencyErrorCode
	CyclicDependencyErrorCode
	IncompatibleGenericsErrorCode
	ArgumentMismatchErrorCode
	IllegalStateErrorCode
	UnresolvedHookTargetErrorCode
	SyntaxErrorCode

	// Generation errors
	GenerationErrorCode
	TemplateErrorCode
	FileSystemErrorCode
)

// String returns the string representation of the error code
func (e ErrorCode) String() string {
	switch e {
	case DuplicateObjectErrorCode:
		return "DuplicateObjectError"
	case DuplicatePropertyErrorCode:
		return "DuplicatePropertyError"
	case UnknownPropertyErrorCode:
		return "UnknownPropertyError"
	case UnknownObjectErrorCode:
		return "UnknownObjectError"
	case MissingDependencyErrorCode:
		return "MissingDependencyError"
	case CyclicDependencyErrorCode:
		return "CyclicDependencyError"
	case IncompatibleGenericsErrorCode:
		return "IncompatibleGenericsError"
	case ArgumentMismatchErrorCode:
		return "ArgumentMismatchError"
	case IllegalStateErrorCode:
		return "IllegalStateError"
	case UnresolvedHookTargetErrorCode:
		return "UnresolvedHookTargetError"
	case SyntaxErrorCode:
		return "SyntaxError"
	case GenerationErrorCode:
		return "GenerationError"
	case TemplateErrorCode:
		return "TemplateError"
	case FileSystemErrorCode:
		return "FileSystemError"
	default:
		return "UnknownError"
	}
}

// Category groups error codes into the two fatal families of the compiler
type Category int

const (
	UnknownCategory Category = iota
	// ConfigurationCategory covers defects in the application model
	ConfigurationCategory
	// GenerationCategory covers emission failures
	GenerationCategory
)

// String returns the string representation of the category
func (c Category) String() string {
	switch c {
	case ConfigurationCategory:
		return "ConfigurationError"
	case GenerationCategory:
		return "GenerationError"
	default:
		return "UnknownError"
	}
}

// CategoryOf maps an error code to its category
func CategoryOf(code ErrorCode) Category {
	switch code {
	case GenerationErrorCode, TemplateErrorCode, FileSystemErrorCode:
		return GenerationCategory
	case UnknownErrorCode:
		return UnknownCategory
	default:
		return ConfigurationCategory
	}
}

// BaseError provides a common implementation of the MetagenError interface
type BaseError struct {
	Code        ErrorCode              // type of error
	Message     string                 // error message
	Cause       error                  // underlying error cause
	ContextData map[string]interface{} // object, property, dependency names
	Hints       []string               // suggestions for fixing the model
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// ErrorCode returns the error code
func (e *BaseError) ErrorCode() ErrorCode {
	return e.Code
}

// Category returns the category derived from the error code
func (e *BaseError) Category() Category {
	return CategoryOf(e.Code)
}

// Context returns the error context data
func (e *BaseError) Context() map[string]interface{} {
	if e.ContextData == nil {
		return make(map[string]interface{})
	}
	return e.ContextData
}

// Suggestions returns helpful suggestions for fixing the error
func (e *BaseError) Suggestions() []string {
	return e.Hints
}

// Unwrap returns the underlying error cause for error chain inspection
func (e *BaseError) Unwrap() error {
	return e.Cause
}

// WithCause adds an underlying error cause
func (e *BaseError) WithCause(cause error) *BaseError {
	e.Cause = cause
	return e
}

// WithContext adds context data to the error
func (e *BaseError) WithContext(key string, value interface{}) *BaseError {
	if e.ContextData == nil {
		e.ContextData = make(map[string]interface{})
	}
	e.ContextData[key] = value
	return e
}

// WithSuggestion adds a helpful suggestion for fixing the error
func (e *BaseError) WithSuggestion(suggestion string) *BaseError {
	e.Hints = append(e.Hints, suggestion)
	return e
}

// WithSuggestions adds multiple helpful suggestions
func (e *BaseError) WithSuggestions(suggestions ...string) *BaseError {
	e.Hints = append(e.Hints, suggestions...)
	return e
}

// New creates a new BaseError with the specified code and message
func New(code ErrorCode, message string) *BaseError {
	return &BaseError{
		Code:    code,
		Message: message,
		Hints:   make([]string, 0),
	}
}

// Newf creates a new BaseError with formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *BaseError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap creates a new error that wraps another error
func Wrap(code ErrorCode, message string, cause error) *BaseError {
	return New(code, message).WithCause(cause)
}

// Wrapf creates a new error that wraps another error with formatted message
func Wrapf(code ErrorCode, cause error, format string, args ...interface{}) *BaseError {
	return Wrap(code, fmt.Sprintf(format, args...), cause)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Unwrap returns the result of calling Unwrap on err, if any
func Unwrap(err error) error {
	return stderrors.Unwrap(err)
}

// CodeOf returns the error code of the first MetagenError in err's chain
func CodeOf(err error) ErrorCode {
	var me MetagenError
	if stderrors.As(err, &me) {
		return me.ErrorCode()
	}
	return UnknownErrorCode
}

// HasCode reports whether err carries the given code anywhere in its chain
func HasCode(err error, code ErrorCode) bool {
	for err != nil {
		if me, ok := err.(MetagenError); ok && me.ErrorCode() == code {
			return true
		}
		if multi, ok := err.(*MultipleErrors); ok {
			return multi.HasCode(code)
		}
		err = stderrors.Unwrap(err)
	}
	return false
}

// MultipleErrors represents multiple errors collected together
type MultipleErrors struct {
	Errors []MetagenError
}

// Error implements the error interface
func (e *MultipleErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var messages []string
	for i, err := range e.Errors {
		messages = append(messages, fmt.Sprintf("  %d. %s", i+1, err.Error()))
	}

	return fmt.Sprintf("multiple errors (%d total):\n%s", len(e.Errors), strings.Join(messages, "\n"))
}

// ErrorCode returns the error code (uses the first error's code)
func (e *MultipleErrors) ErrorCode() ErrorCode {
	if len(e.Errors) == 0 {
		return UnknownErrorCode
	}
	return e.Errors[0].ErrorCode()
}

// Category returns the category of the first error
func (e *MultipleErrors) Category() Category {
	return CategoryOf(e.ErrorCode())
}

// Context returns combined context from all errors
func (e *MultipleErrors) Context() map[string]interface{} {
	combined := make(map[string]interface{})
	for i, err := range e.Errors {
		for k, v := range err.Context() {
			combined[fmt.Sprintf("error_%d_%s", i, k)] = v
		}
	}
	return combined
}

// Suggestions returns combined suggestions from all errors
func (e *MultipleErrors) Suggestions() []string {
	var suggestions []string
	for _, err := range e.Errors {
		suggestions = append(suggestions, err.Suggestions()...)
	}
	return suggestions
}

// Unwrap returns all collected errors so errors.Is and errors.As can inspect each of them
func (e *MultipleErrors) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}

// Add adds an error to the collection
func (e *MultipleErrors) Add(err MetagenError) {
	e.Errors = append(e.Errors, err)
}

// IsEmpty returns true if there are no errors
func (e *MultipleErrors) IsEmpty() bool {
	return len(e.Errors) == 0
}

// Count returns the number of errors
func (e *MultipleErrors) Count() int {
	return len(e.Errors)
}

// HasCode returns true if any error of the specified type exists
func (e *MultipleErrors) HasCode(code ErrorCode) bool {
	for _, err := range e.Errors {
		if err.ErrorCode() == code {
			return true
		}
	}
	return false
}

// ErrOrNil returns nil when nothing was collected
func (e *MultipleErrors) ErrOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// NewMultipleErrors creates a new MultipleErrors collection
func NewMultipleErrors() *MultipleErrors {
	return &MultipleErrors{
		Errors: make([]MetagenError, 0),
	}
}
