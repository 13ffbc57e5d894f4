package models

import (
	"strconv"

	"github.com/toyz/metagen/internal/utils"
)

// FieldType is the storage type of a data field
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldInteger FieldType = "integer"
	FieldDecimal FieldType = "decimal"
	FieldDate    FieldType = "date"
	FieldChoice  FieldType = "choice"
)

// Field is a typed data field of a data object
type Field struct {
	Name   string
	Label  string
	Type   FieldType
	Choice *ChoiceCategory // set for FieldChoice

	parent *DataObject
}

// NewField creates a plain field
func NewField(name, label string, fieldType FieldType) *Field {
	if label == "" {
		label = name
	}
	return &Field{Name: name, Label: label, Type: fieldType}
}

// NewChoiceField creates a field holding a value of choice
func NewChoiceField(name, label string, choice *ChoiceCategory) *Field {
	f := NewField(name, label, FieldChoice)
	f.Choice = choice
	return f
}

// Parent returns the owning data object, nil until added
func (f *Field) Parent() *DataObject {
	return f.parent
}

// AttributeName is the generated struct field name
func (f *Field) AttributeName() string {
	return utils.ClassName(f.Name)
}

// ColumnName is the storage column name
func (f *Field) ColumnName() string {
	return utils.ConstantName(f.Name)
}

// GoType is the generated Go type of the field
func (f *Field) GoType() string {
	switch f.Type {
	case FieldInteger:
		return "int64"
	case FieldDecimal:
		return "rt.Decimal"
	case FieldDate:
		return "time.Time"
	case FieldChoice:
		if f.Choice != nil {
			return "rt.ChoiceValue[" + f.choiceDefinition() + "]"
		}
		return "string"
	default:
		return "string"
	}
}

// choiceDefinition names the choice definition type as seen from the parent's package
func (f *Field) choiceDefinition() string {
	name := f.Choice.DefinitionClassName()
	module := f.Choice.Module()
	if module == nil || f.parent == nil || module == f.parent.Module() {
		return name
	}
	return module.PackageName() + "." + name
}

// ImportStatements lists the import specs the generated field needs
func (f *Field) ImportStatements() []string {
	switch f.Type {
	case FieldDate:
		return []string{`"time"`}
	case FieldChoice:
		if f.Choice == nil || f.parent == nil {
			return nil
		}
		module := f.Choice.Module()
		if module == nil || module == f.parent.Module() {
			return nil
		}
		return []string{module.PackageName() + " " + strconv.Quote(module.Path)}
	}
	return nil
}

// ExtractExpression reads the field from the runtime row variable named row
func (f *Field) ExtractExpression(row string) string {
	column := `"` + f.ColumnName() + `"`
	switch f.Type {
	case FieldInteger:
		return row + ".Int(" + column + ")"
	case FieldDecimal:
		return row + ".Decimal(" + column + ")"
	case FieldDate:
		return row + ".Time(" + column + ")"
	case FieldChoice:
		if f.Choice != nil {
			return f.GoType() + "{Code: " + row + ".String(" + column + ")}"
		}
		return row + ".String(" + column + ")"
	default:
		return row + ".String(" + column + ")"
	}
}
