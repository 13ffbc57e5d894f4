package report

import (
	"strconv"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/models"
)

// ChoiceColumnCriteria creates one column per value of a choice field of the node object
type ChoiceColumnCriteria struct {
	criteria
	field *models.Field
}

// NewChoiceColumnCriteria creates column criteria on a choice field of the node object
func NewChoiceColumnCriteria(node *Node, field *models.Field, opts ...Option) (*ChoiceColumnCriteria, error) {
	if err := checkField(node, field, "choice column criteria"); err != nil {
		return nil, err
	}
	if field.Type != models.FieldChoice || field.Choice == nil {
		return nil, errors.NewIllegalStateError(node.Object.QualifiedName(), "create choice column criteria",
			"field "+field.Name+" is not a choice field")
	}
	return &ChoiceColumnCriteria{criteria: newCriteria(node, opts), field: field}, nil
}

// Field returns the choice field used as column criteria
func (c *ChoiceColumnCriteria) Field() *models.Field { return c.field }

func (c *ChoiceColumnCriteria) objectType(from *models.Module) string {
	return "*" + qualify(from, c.node.Object.Module(), c.node.Object.ClassName())
}

func (c *ChoiceColumnCriteria) LabelExtractor(from *models.Module) string {
	value := "a." + c.field.AttributeName()
	return "func(a " + c.objectType(from) + ") string { if " + value + ".Code == \"\" { return " +
		strconv.Quote(Unspecified) + " }; return " + value + ".DisplayValue() }"
}

func (c *ChoiceColumnCriteria) PayloadExtractor(from *models.Module) string {
	return "func(a " + c.objectType(from) + ") " + c.PayloadTypeName(from) + " { return a." + c.field.AttributeName() + " }"
}

// PayloadTypeName is rt.ChoiceValue of the choice definition, qualified when the choice lives in another module
func (c *ChoiceColumnCriteria) PayloadTypeName(from *models.Module) string {
	choice := c.field.Choice
	return "rt.ChoiceValue[" + qualify(from, choice.Module(), choice.DefinitionClassName()) + "]"
}

// ImportStatements imports the choice definition and the node object when they live in another module
func (c *ChoiceColumnCriteria) ImportStatements(from *models.Module) []string {
	var specs []string
	seen := map[*models.Module]bool{from: true}
	for _, module := range []*models.Module{c.field.Choice.Module(), c.node.Object.Module()} {
		if module == nil || seen[module] {
			continue
		}
		seen[module] = true
		specs = append(specs, importSpec(module))
	}
	return specs
}

func (c *ChoiceColumnCriteria) ColumnValueStatements(prefix string) []string {
	value := c.node.StepVariable(prefix) + "." + c.field.AttributeName()
	return []string{
		"columnvalue := " + strconv.Quote(Unspecified),
		"if " + value + ".Code != \"\" {",
		"columnvalue = " + value + ".DisplayValue()",
		"}",
		"columnvalue = columnvalue" + c.suffixExpr(),
	}
}
