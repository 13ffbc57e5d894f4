package models

import "go.uber.org/zap"

// DefinitionContext is what a property sees while its parent definition is completed
type DefinitionContext interface {
	// Bind finds the property of object satisfying the template's parameter for role
	Bind(template Property, role string, object *DataObject) (*PropertyGenerics, error)
	// Instantiate attaches template to target after checking bindings against
	// the template's generic parameters
	Instantiate(template Property, target *DataObject, bindings ...*PropertyGenerics) error
	Logger() *zap.Logger
}
