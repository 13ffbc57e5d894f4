package models

import "github.com/toyz/metagen/internal/utils"

// ChoiceValue is one entry of a choice category
type ChoiceValue struct {
	Code  string
	Label string
}

// ChoiceCategory is an enumeration owned by a module
type ChoiceCategory struct {
	Name   string
	Values []ChoiceValue

	module *Module
}

// NewChoiceCategory creates a choice category
func NewChoiceCategory(name string, values ...ChoiceValue) *ChoiceCategory {
	return &ChoiceCategory{Name: name, Values: values}
}

// Module returns the owning module, nil until registered
func (c *ChoiceCategory) Module() *Module {
	return c.module
}

// DefinitionClassName returns the generated definition type, e.g. "OrderStatusChoiceDefinition"
func (c *ChoiceCategory) DefinitionClassName() string {
	return utils.ClassName(c.Name) + "ChoiceDefinition"
}
