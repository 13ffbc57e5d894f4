package models

import (
	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/utils"
)

// DataObject is a named entity of a module carrying fields and properties.
// It is mutable until Finalize stores the resolved property order.
type DataObject struct {
	Name  string
	Label string

	module     *Module
	properties *utils.BaseRegistry[string, Property]
	fields     *utils.BaseRegistry[string, *Field]
	order      []Property
	finalized  bool
}

func newDataObject(module *Module, name, label string) *DataObject {
	if label == "" {
		label = name
	}
	return &DataObject{
		Name:       name,
		Label:      label,
		module:     module,
		properties: utils.NewBaseRegistry[string, Property]("data object "+name, "property code", "property"),
		fields:     utils.NewBaseRegistry[string, *Field]("data object "+name, "field name", "field"),
	}
}

// Module returns the owning module
func (o *DataObject) Module() *Module {
	return o.module
}

// QualifiedName returns "module/object"
func (o *DataObject) QualifiedName() string {
	if o.module == nil {
		return o.Name
	}
	return o.module.Name + "/" + o.Name
}

// ClassName returns the generated Go type name
func (o *DataObject) ClassName() string {
	return utils.ClassName(o.Name)
}

// TableName returns the storage name used by generated data access code
func (o *DataObject) TableName() string {
	return utils.ConstantName(o.Name)
}

// AddProperty attaches p to the object under p.Code()
func (o *DataObject) AddProperty(p Property) error {
	if o.finalized {
		return errors.NewIllegalStateError(o.QualifiedName(), "add property "+p.Code(), "data object is finalized")
	}
	if o.properties.Has(p.Code()) {
		return errors.NewDuplicatePropertyError(o.QualifiedName(), p.Code())
	}
	if parent := p.Parent(); parent != nil && parent != o {
		return errors.NewIllegalStateError(o.QualifiedName(), "add property "+p.Code(),
			"property is already attached to '"+parent.QualifiedName()+"'")
	}

	p.base().attach(o, p)
	return o.properties.Register(p.Code(), p)
}

// PropertyByName returns the property registered under code
func (o *DataObject) PropertyByName(code string) (Property, error) {
	p, ok := o.properties.Get(code)
	if !ok {
		return nil, errors.NewUnknownPropertyError(o.QualifiedName(), code)
	}
	return p, nil
}

// HasProperty reports whether a property is registered under code
func (o *DataObject) HasProperty(code string) bool {
	return o.properties.Has(code)
}

// Properties returns the attached properties in insertion order
func (o *DataObject) Properties() []Property {
	return o.properties.Values()
}

// PropertyIndex returns the insertion index of code, or -1
func (o *DataObject) PropertyIndex(code string) int {
	return o.properties.IndexOf(code)
}

// AddField declares a data field
func (o *DataObject) AddField(f *Field) error {
	if o.finalized {
		return errors.NewIllegalStateError(o.QualifiedName(), "add field "+f.Name, "data object is finalized")
	}
	if o.fields.Has(f.Name) {
		err := errors.NewDuplicatePropertyError(o.QualifiedName(), f.Name)
		err.WithSuggestion("Field names must be unique per data object")
		return err
	}
	f.parent = o
	return o.fields.Register(f.Name, f)
}

// Field looks up a field by name
func (o *DataObject) Field(name string) (*Field, bool) {
	return o.fields.Get(name)
}

// Fields returns the fields in declaration order
func (o *DataObject) Fields() []*Field {
	return o.fields.Values()
}

// Finalize freezes the object with the resolved property order.
// order must hold exactly the attached properties.
func (o *DataObject) Finalize(order []Property) error {
	if o.finalized {
		return errors.NewIllegalStateError(o.QualifiedName(), "finalize", "data object is already finalized")
	}
	if len(order) != o.properties.Size() {
		return errors.NewIllegalStateError(o.QualifiedName(), "finalize", "resolved order does not cover every property")
	}
	for _, p := range order {
		if registered, ok := o.properties.Get(p.Code()); !ok || registered != p {
			return errors.NewIllegalStateError(o.QualifiedName(), "finalize", "property '"+p.Code()+"' is not attached")
		}
	}

	o.order = append([]Property(nil), order...)
	o.finalized = true
	return nil
}

// IsFinalized reports whether the property order is frozen
func (o *DataObject) IsFinalized() bool {
	return o.finalized
}

// OrderedProperties returns the resolved property order
func (o *DataObject) OrderedProperties() ([]Property, error) {
	if !o.finalized {
		return nil, errors.NewIllegalStateError(o.QualifiedName(), "read property order", "data object is not finalized")
	}
	return append([]Property(nil), o.order...), nil
}
