// Package inspect serves a read-only JSON view of a compiled model over HTTP,
// on gin, echo or fiber.
package inspect

import (
	"github.com/toyz/metagen/internal/compiler"
	"github.com/toyz/metagen/internal/models"
)

// ModuleView is the JSON form of a module
type ModuleView struct {
	Name    string       `json:"name"`
	Path    string       `json:"path"`
	Objects []ObjectView `json:"objects"`
	Choices []ChoiceView `json:"choices,omitempty"`
	Actions []ActionView `json:"actions,omitempty"`
}

// ObjectView is the JSON form of a data object
type ObjectView struct {
	Name       string         `json:"name"`
	Qualified  string         `json:"qualified"`
	Label      string         `json:"label"`
	Finalized  bool           `json:"finalized"`
	Fields     []FieldView    `json:"fields,omitempty"`
	Properties []PropertyView `json:"properties"`
}

// FieldView is the JSON form of a field
type FieldView struct {
	Name   string `json:"name"`
	Label  string `json:"label"`
	Type   string `json:"type"`
	Choice string `json:"choice,omitempty"`
}

// PropertyView is the JSON form of a property, in resolved order when the object is finalized
type PropertyView struct {
	Code         string     `json:"code"`
	Kind         string     `json:"kind"`
	Dependencies []string   `json:"dependencies,omitempty"`
	Bindings     []string   `json:"bindings,omitempty"`
	Methods      []string   `json:"methods,omitempty"`
	Hooks        []HookView `json:"hooks,omitempty"`
	GoType       string     `json:"go_type,omitempty"`
}

// HookView is a hook declared by a property
type HookView struct {
	Phase    string `json:"phase"`
	Target   string `json:"target"`
	Function string `json:"function"`
}

// ChoiceView is the JSON form of a choice category
type ChoiceView struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// ActionView is the JSON form of an action
type ActionView struct {
	Name    string   `json:"name"`
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs,omitempty"`
}

// ReportView is the JSON form of a report
type ReportView struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Object  string   `json:"object"`
	Columns []string `json:"columns"`
}

func moduleView(module *models.Module) ModuleView {
	view := ModuleView{Name: module.Name, Path: module.Path, Objects: []ObjectView{}}
	for _, object := range module.DataObjects() {
		view.Objects = append(view.Objects, objectView(object))
	}
	for _, choice := range module.Choices() {
		c := ChoiceView{Name: choice.Name}
		for _, v := range choice.Values {
			c.Values = append(c.Values, v.Code)
		}
		view.Choices = append(view.Choices, c)
	}
	for _, action := range module.Actions() {
		view.Actions = append(view.Actions, ActionView{
			Name:    action.QualifiedName(),
			Inputs:  argumentTypes(action.Inputs),
			Outputs: argumentTypes(action.Outputs),
		})
	}
	return view
}

func objectView(object *models.DataObject) ObjectView {
	view := ObjectView{
		Name:       object.Name,
		Qualified:  object.QualifiedName(),
		Label:      object.Label,
		Finalized:  object.IsFinalized(),
		Properties: []PropertyView{},
	}
	for _, f := range object.Fields() {
		field := FieldView{Name: f.Name, Label: f.Label, Type: string(f.Type)}
		if f.Choice != nil {
			field.Choice = f.Choice.Name
		}
		view.Fields = append(view.Fields, field)
	}

	ordered := object.Properties()
	if object.IsFinalized() {
		if resolved, err := object.OrderedProperties(); err == nil {
			ordered = resolved
		}
	}
	for _, p := range ordered {
		view.Properties = append(view.Properties, propertyView(p))
	}
	return view
}

func propertyView(p models.Property) PropertyView {
	view := PropertyView{Code: p.Code(), Kind: p.Kind()}
	for _, d := range p.Dependencies() {
		if d.Object != nil && d.Object != p.Parent() {
			view.Dependencies = append(view.Dependencies, d.Object.QualifiedName()+"."+d.Code)
		} else {
			view.Dependencies = append(view.Dependencies, d.Code)
		}
	}
	for _, g := range p.Generics() {
		view.Bindings = append(view.Bindings, g.String())
	}
	for _, m := range p.DataAccessMethods() {
		view.Methods = append(view.Methods, m.FuncName())
	}
	for _, h := range p.AdditionalProcessing() {
		view.Hooks = append(view.Hooks, HookView{
			Phase:    h.Phase.String(),
			Target:   h.Method.String(),
			Function: h.FuncName(),
		})
	}
	if goType, err := p.GoType(); err == nil {
		view.GoType = goType
	}
	return view
}

func argumentTypes(args []models.ArgumentContent) []string {
	types := make([]string, len(args))
	for i, arg := range args {
		types[i] = arg.Name() + " " + arg.TypeName()
	}
	return types
}

func reportViews(c *compiler.Compiler) []ReportView {
	views := []ReportView{}
	for _, r := range c.Reports() {
		view := ReportView{Name: r.Name, Label: r.Label, Object: r.Node().Object.QualifiedName()}
		for _, column := range r.Columns() {
			name := column.Node().Name
			if fielded, ok := column.(interface{ Field() *models.Field }); ok {
				name = fielded.Field().Name
			}
			view.Columns = append(view.Columns, name)
		}
		views = append(views, view)
	}
	return views
}
