package report

import (
	"github.com/toyz/metagen/internal/models"
)

// FieldColumnCriteria creates one column per distinct value of a plain field
type FieldColumnCriteria struct {
	criteria
	field *models.Field
}

// NewFieldColumnCriteria creates column criteria on a field of the node object
func NewFieldColumnCriteria(node *Node, field *models.Field, opts ...Option) (*FieldColumnCriteria, error) {
	if err := checkField(node, field, "field column criteria"); err != nil {
		return nil, err
	}
	return &FieldColumnCriteria{criteria: newCriteria(node, opts), field: field}, nil
}

// Field returns the field used as column criteria
func (c *FieldColumnCriteria) Field() *models.Field { return c.field }

func (c *FieldColumnCriteria) objectType(from *models.Module) string {
	return "*" + qualify(from, c.node.Object.Module(), c.node.Object.ClassName())
}

func (c *FieldColumnCriteria) LabelExtractor(from *models.Module) string {
	return "func(a " + c.objectType(from) + ") string { return fmt.Sprint(a." + c.field.AttributeName() + ") }"
}

func (c *FieldColumnCriteria) PayloadExtractor(from *models.Module) string {
	return "func(a " + c.objectType(from) + ") " + c.PayloadTypeName(from) + " { return a." + c.field.AttributeName() + " }"
}

func (c *FieldColumnCriteria) PayloadTypeName(from *models.Module) string {
	if c.field.Type == models.FieldChoice && c.field.Choice != nil {
		return "rt.ChoiceValue[" + qualify(from, c.field.Choice.Module(), c.field.Choice.DefinitionClassName()) + "]"
	}
	return c.field.GoType()
}

func (c *FieldColumnCriteria) ImportStatements(from *models.Module) []string {
	specs := []string{`"fmt"`}
	if c.field.Type == models.FieldDate {
		specs = append(specs, `"time"`)
	}
	if module := c.node.Object.Module(); module != nil && module != from {
		specs = append(specs, importSpec(module))
	}
	return specs
}

func (c *FieldColumnCriteria) ColumnValueStatements(prefix string) []string {
	return []string{
		"columnvalue := fmt.Sprint(" + c.node.StepVariable(prefix) + "." + c.field.AttributeName() + ")" + c.suffixExpr(),
	}
}
