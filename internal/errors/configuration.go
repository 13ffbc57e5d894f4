package errors

import (
	"fmt"
	"strings"
)

// DuplicateObjectError is raised when a module declares two data objects with the same name
type DuplicateObjectError struct {
	*BaseError
	Module string
	Object string
}

// NewDuplicateObjectError creates a duplicate object error
func NewDuplicateObjectError(module, object string) *DuplicateObjectError {
	return &DuplicateObjectError{
		BaseError: New(DuplicateObjectErrorCode, fmt.Sprintf("data object '%s' is already declared in module '%s'", object, module)).
			WithContext("module", module).
			WithContext("object", object).
			WithSuggestion("Rename one of the data objects"),
		Module: module,
		Object: object,
	}
}

// DuplicatePropertyError is raised when a property code is registered twice on one object
type DuplicatePropertyError struct {
	*BaseError
	Object   string
	Property string
}

// NewDuplicatePropertyError creates a duplicate property error
func NewDuplicatePropertyError(object, property string) *DuplicatePropertyError {
	return &DuplicatePropertyError{
		BaseError: New(DuplicatePropertyErrorCode, fmt.Sprintf("property '%s' is already attached to data object '%s'", property, object)).
			WithContext("object", object).
			WithContext("property", property).
			WithSuggestion("Attach each property code at most once per data object"),
		Object:   object,
		Property: property,
	}
}

// UnknownPropertyError is raised when a lookup by code fails
type UnknownPropertyError struct {
	*BaseError
	Object   string
	Property string
}

// NewUnknownPropertyError creates an unknown property error
func NewUnknownPropertyError(object, property string) *UnknownPropertyError {
	return &UnknownPropertyError{
		BaseError: New(UnknownPropertyErrorCode, fmt.Sprintf("data object '%s' has no property '%s'", object, property)).
			WithContext("object", object).
			WithContext("property", property).
			WithSuggestion(fmt.Sprintf("Attach property '%s' to '%s' before referencing it", property, object)),
		Object:   object,
		Property: property,
	}
}

// UnknownObjectError is raised when a reference names no declared data object or choice
type UnknownObjectError struct {
	*BaseError
	Module string
	Object string
}

// NewUnknownObjectError creates an unknown object error
func NewUnknownObjectError(module, object string) *UnknownObjectError {
	return &UnknownObjectError{
		BaseError: New(UnknownObjectErrorCode, fmt.Sprintf("module '%s' has no '%s'", module, object)).
			WithContext("module", module).
			WithContext("object", object).
			WithSuggestion("Declare it, or qualify the reference as module/Name"),
		Module: module,
		Object: object,
	}
}

// MissingDependencyError is raised when a property depends on a code absent from the target object
type MissingDependencyError struct {
	*BaseError
	Object     string
	Property   string
	Dependency string
}

// NewMissingDependencyError creates a missing dependency error
func NewMissingDependencyError(object, property, dependency string) *MissingDependencyError {
	message := fmt.Sprintf("property '%s' on data object '%s' depends on missing property '%s'", property, object, dependency)
	return &MissingDependencyError{
		BaseError: New(MissingDependencyErrorCode, message).
			WithContext("object", object).
			WithContext("property", property).
			WithContext("dependency", dependency).
			WithSuggestions(
				fmt.Sprintf("Attach '%s' to '%s'", dependency, object),
				fmt.Sprintf("Remove the dependency from '%s'", property),
			),
		Object:     object,
		Property:   property,
		Dependency: dependency,
	}
}

// CyclicDependencyError is raised when property dependencies form a cycle
type CyclicDependencyError struct {
	*BaseError
	Members []string // qualified property codes in cycle order
}

// NewCyclicDependencyError creates a cyclic dependency error naming every cycle member
func NewCyclicDependencyError(members []string) *CyclicDependencyError {
	path := strings.Join(members, " -> ")
	if len(members) > 0 {
		path += " -> " + members[0]
	}
	return &CyclicDependencyError{
		BaseError: New(CyclicDependencyErrorCode, fmt.Sprintf("cyclic property dependency: %s", path)).
			WithContext("members", members).
			WithSuggestion("Remove one of the dependencies in the cycle"),
		Members: members,
	}
}

// IncompatibleGenericsError is raised when a generics binding does not satisfy its role contract
type IncompatibleGenericsError struct {
	*BaseError
	Property string
	Role     string
	Expected string
	Actual   string
}

// NewIncompatibleGenericsError creates an incompatible generics error
func NewIncompatibleGenericsError(property, role, expected, actual string) *IncompatibleGenericsError {
	message := fmt.Sprintf("generics '%s' of property '%s': expected %s, got %s", role, property, expected, actual)
	return &IncompatibleGenericsError{
		BaseError: New(IncompatibleGenericsErrorCode, message).
			WithContext("property", property).
			WithContext("role", role).
			WithContext("expected", expected).
			WithContext("actual", actual),
		Property: property,
		Role:     role,
		Expected: expected,
		Actual:   actual,
	}
}

// ArgumentMismatchError is raised when an action's arguments do not fit the place it is attached to
type ArgumentMismatchError struct {
	*BaseError
	Object   string
	Property string
	Action   string
	Reason   string
}

// NewArgumentMismatchError creates an argument mismatch error
func NewArgumentMismatchError(action, reason string) *ArgumentMismatchError {
	return &ArgumentMismatchError{
		BaseError: New(ArgumentMismatchErrorCode, fmt.Sprintf("action '%s': %s", action, reason)).
			WithContext("action", action),
		Action: action,
		Reason: reason,
	}
}

// NewActionArgumentError reports an action whose arguments do not fit the
// property of object it is added to
func NewActionArgumentError(object, property, action, reason string) *ArgumentMismatchError {
	return &ArgumentMismatchError{
		BaseError: New(ArgumentMismatchErrorCode,
			fmt.Sprintf("action '%s' on property '%s' of data object '%s': %s", action, property, object, reason)).
			WithContext("object", object).
			WithContext("property", property).
			WithContext("action", action),
		Object:   object,
		Property: property,
		Action:   action,
		Reason:   reason,
	}
}

// NewArgumentCountError reports an action with the wrong number of input arguments
func NewArgumentCountError(object, property, action string, expected, actual int) *ArgumentMismatchError {
	err := NewActionArgumentError(object, property, action,
		fmt.Sprintf("expected exactly %d input argument, action has %d", expected, actual))
	err.WithContext("expected_count", expected)
	err.WithContext("actual_count", actual)
	return err
}

// IllegalStateError is raised when a finalized model element is mutated
type IllegalStateError struct {
	*BaseError
	Object    string
	Operation string
}

// NewIllegalStateError creates an illegal state error
func NewIllegalStateError(object, operation, reason string) *IllegalStateError {
	return &IllegalStateError{
		BaseError: New(IllegalStateErrorCode, fmt.Sprintf("cannot %s on data object '%s': %s", operation, object, reason)).
			WithContext("object", object).
			WithContext("operation", operation),
		Object:    object,
		Operation: operation,
	}
}

// UnresolvedHookTargetError is raised when a hook targets a method whose property is not attached
type UnresolvedHookTargetError struct {
	*BaseError
	Property string
	Target   string
	Method   string
}

// NewUnresolvedHookTargetError creates an unresolved hook target error
func NewUnresolvedHookTargetError(property, target, method, reason string) *UnresolvedHookTargetError {
	message := fmt.Sprintf("property '%s' cannot hook method '%s' of '%s': %s", property, method, target, reason)
	return &UnresolvedHookTargetError{
		BaseError: New(UnresolvedHookTargetErrorCode, message).
			WithContext("property", property).
			WithContext("target", target).
			WithContext("method", method),
		Property: property,
		Target:   target,
		Method:   method,
	}
}

// SyntaxError represents a model definition parsing error
type SyntaxError struct {
	*BaseError
	File   string
	Line   int
	Column int
}

// NewSyntaxError creates a new syntax error at the given position
func NewSyntaxError(file string, line, column int, message string) *SyntaxError {
	return &SyntaxError{
		BaseError: New(SyntaxErrorCode, fmt.Sprintf("%s:%d:%d: %s", file, line, column, message)).
			WithContext("file", file).
			WithContext("line", line),
		File:   file,
		Line:   line,
		Column: column,
	}
}
