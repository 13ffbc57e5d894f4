package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrNotImplemented is returned by emission contracts that a concrete property must override
var ErrNotImplemented = stderrors.New("#NOTIMPLEMENTED#")

// GenerationError represents an error during code emission for one data object
type GenerationError struct {
	*BaseError
	Object   string // data object being generated
	Property string // property whose emission contract failed, if any
	Stage    string // emission stage (type, imports, hooks, template, write)
}

// NewGenerationError creates a new generation error
func NewGenerationError(object, property, stage string, cause error) *GenerationError {
	message := fmt.Sprintf("generation of data object '%s' failed at stage '%s'", object, stage)
	if property != "" {
		message = fmt.Sprintf("generation of data object '%s' failed at stage '%s' for property '%s'", object, stage, property)
	}
	return &GenerationError{
		BaseError: Wrap(GenerationErrorCode, message, cause).
			WithContext("object", object).
			WithContext("property", property).
			WithContext("stage", stage),
		Object:   object,
		Property: property,
		Stage:    stage,
	}
}

// WrapTemplateError wraps template processing errors
func WrapTemplateError(templateName, operation string, cause error) *BaseError {
	return Wrap(TemplateErrorCode, fmt.Sprintf("failed to %s template '%s'", operation, templateName), cause).
		WithContext("template", templateName).
		WithContext("operation", operation)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	message := fmt.Sprintf("failed to %s file '%s'", operation, path)
	return Wrap(FileSystemErrorCode, message, cause).
		WithContext("operation", operation).
		WithContext("path", path).
		WithSuggestions(
			"Check write permissions for the output directory",
			"Verify there's enough disk space",
		)
}
