package models

import "fmt"

// ArgumentContent is a typed action argument
type ArgumentContent interface {
	Name() string
	// TypeName describes the argument type in diagnostics
	TypeName() string
	// GoType is the generated Go type of the argument
	GoType() string
}

// ObjectIDArgument carries the identifier of a data object
type ObjectIDArgument struct {
	name   string
	Object *DataObject
}

// NewObjectIDArgument creates an identifier argument for object
func NewObjectIDArgument(name string, object *DataObject) *ObjectIDArgument {
	return &ObjectIDArgument{name: name, Object: object}
}

func (a *ObjectIDArgument) Name() string { return a.name }

func (a *ObjectIDArgument) TypeName() string {
	if a.Object == nil {
		return "object id of no data object"
	}
	return fmt.Sprintf("object id of %s", a.Object.QualifiedName())
}

func (a *ObjectIDArgument) GoType() string { return "rt.ObjectID" }

// StringArgument is a bounded text argument
type StringArgument struct {
	name      string
	MaxLength int
}

// NewStringArgument creates a text argument
func NewStringArgument(name string, maxLength int) *StringArgument {
	return &StringArgument{name: name, MaxLength: maxLength}
}

func (a *StringArgument) Name() string     { return a.name }
func (a *StringArgument) TypeName() string { return "string" }
func (a *StringArgument) GoType() string   { return "string" }

// IntegerArgument is a whole number argument
type IntegerArgument struct {
	name string
}

// NewIntegerArgument creates an integer argument
func NewIntegerArgument(name string) *IntegerArgument {
	return &IntegerArgument{name: name}
}

func (a *IntegerArgument) Name() string     { return a.name }
func (a *IntegerArgument) TypeName() string { return "integer" }
func (a *IntegerArgument) GoType() string   { return "int64" }

// ChoiceArgument holds one value of a choice category
type ChoiceArgument struct {
	name   string
	Choice *ChoiceCategory
}

// NewChoiceArgument creates a choice argument
func NewChoiceArgument(name string, choice *ChoiceCategory) *ChoiceArgument {
	return &ChoiceArgument{name: name, Choice: choice}
}

func (a *ChoiceArgument) Name() string { return a.name }

func (a *ChoiceArgument) TypeName() string {
	return "choice " + a.Choice.Name
}

func (a *ChoiceArgument) GoType() string {
	return "rt.ChoiceValue[" + a.Choice.DefinitionClassName() + "]"
}

// Action is a module operation with typed inputs and outputs
type Action struct {
	Name    string
	Inputs  []ArgumentContent
	Outputs []ArgumentContent

	module *Module
}

// NewAction creates an action with the given input arguments
func NewAction(name string, inputs ...ArgumentContent) *Action {
	return &Action{Name: name, Inputs: inputs}
}

// AddInput appends an input argument
func (a *Action) AddInput(arg ArgumentContent) *Action {
	a.Inputs = append(a.Inputs, arg)
	return a
}

// AddOutput appends an output argument
func (a *Action) AddOutput(arg ArgumentContent) *Action {
	a.Outputs = append(a.Outputs, arg)
	return a
}

// Module returns the owning module, nil until registered
func (a *Action) Module() *Module {
	return a.module
}

// QualifiedName returns "module/ACTION"
func (a *Action) QualifiedName() string {
	if a.module == nil {
		return a.Name
	}
	return a.module.Name + "/" + a.Name
}
