// Package report describes how the main value of a report is split into
// columns and emits the Go expressions that build those columns.
package report

import (
	"sort"
	"strconv"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/models"
	"github.com/toyz/metagen/internal/utils"
)

// Unspecified is the column label used when the criteria value is empty
const Unspecified = "Unspecified"

// Node is a step of a report reading one data object
type Node struct {
	Name   string
	Object *models.DataObject
}

// NewNode creates a report node on object
func NewNode(name string, object *models.DataObject) *Node {
	return &Node{Name: name, Object: object}
}

// StepVariable is the generated variable holding the node object for a prefix, e.g. "orderStep0"
func (n *Node) StepVariable(prefix string) string {
	return utils.AttributeName(n.Object.Name) + "Step" + prefix
}

// ColumnCriteria splits the main value of a report node into columns
type ColumnCriteria interface {
	Node() *Node
	Suffix() string
	ColumnIndex() int

	// LabelExtractor is a Go func literal giving the column label of an object
	LabelExtractor(from *models.Module) string
	// PayloadExtractor is a Go func literal giving the column payload of an object
	PayloadExtractor(from *models.Module) string
	PayloadTypeName(from *models.Module) string
	ImportStatements(from *models.Module) []string
	// ColumnValueStatements assign the column label to a variable named columnvalue
	ColumnValueStatements(prefix string) []string
}

// Option configures a column criteria
type Option func(*criteria)

// WithSuffix appends suffix to every column label
func WithSuffix(suffix string) Option {
	return func(c *criteria) { c.suffix = suffix }
}

// WithColumnIndex orders the columns; columns with the same index stay together
func WithColumnIndex(index int) Option {
	return func(c *criteria) { c.index = index }
}

type criteria struct {
	node   *Node
	suffix string
	index  int
}

func newCriteria(node *Node, opts []Option) criteria {
	c := criteria{node: node}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c *criteria) Node() *Node      { return c.node }
func (c *criteria) Suffix() string   { return c.suffix }
func (c *criteria) ColumnIndex() int { return c.index }

// suffixExpr is the Go expression concatenated to a column label
func (c *criteria) suffixExpr() string {
	if c.suffix == "" {
		return ""
	}
	return " + " + strconv.Quote(c.suffix)
}

// checkField requires field to belong to the node object
func checkField(node *Node, field *models.Field, kind string) error {
	if node == nil || node.Object == nil {
		return errors.NewIllegalStateError("<nil>", "create "+kind, "report node has no data object")
	}
	if field == nil {
		return errors.NewIllegalStateError(node.Object.QualifiedName(), "create "+kind, "field cannot be nil")
	}
	if field.Parent() != node.Object {
		parent := "<unattached>"
		if field.Parent() != nil {
			parent = field.Parent().Name
		}
		return errors.NewIllegalStateError(node.Object.QualifiedName(), "create "+kind,
			"object for node "+node.Object.Name+" and field parent "+parent+" are not consistent")
	}
	return nil
}

// SortColumns orders criteria by column index, keeping declaration order for equal indexes
func SortColumns(columns []ColumnCriteria) []ColumnCriteria {
	sorted := append([]ColumnCriteria(nil), columns...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ColumnIndex() < sorted[j].ColumnIndex()
	})
	return sorted
}

// importSpec returns the Go import spec of a module's generated package
func importSpec(module *models.Module) string {
	return module.PackageName() + " " + strconv.Quote(module.Path)
}

// qualify prefixes name with the package of module when it differs from from
func qualify(from, module *models.Module, name string) string {
	if module == nil || module == from {
		return name
	}
	return module.PackageName() + "." + name
}
