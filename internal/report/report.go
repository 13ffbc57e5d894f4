package report

import (
	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/models"
	"github.com/toyz/metagen/internal/utils"
)

// Report is a named set of column criteria over one node
type Report struct {
	Name  string
	Label string

	node    *Node
	columns []ColumnCriteria
}

// NewReport creates a report on node
func NewReport(name, label string, node *Node) *Report {
	if label == "" {
		label = name
	}
	return &Report{Name: name, Label: label, node: node}
}

// Node returns the main node of the report
func (r *Report) Node() *Node { return r.node }

// Module returns the module generating the report, the one of the node object
func (r *Report) Module() *models.Module {
	if r.node == nil || r.node.Object == nil {
		return nil
	}
	return r.node.Object.Module()
}

// ClassName is the generated identifier of the report, e.g. "OrderByStatusReport"
func (r *Report) ClassName() string {
	return utils.ClassName(r.Name) + "Report"
}

// AddColumn adds criteria built on the report node
func (r *Report) AddColumn(c ColumnCriteria) error {
	if c == nil || c.Node() == nil {
		return errors.NewIllegalStateError(r.Name, "add column", "column criteria has no node")
	}
	if c.Node().Object != r.node.Object {
		return errors.NewIllegalStateError(r.node.Object.QualifiedName(), "add column to report "+r.Name,
			"criteria is built on "+c.Node().Object.QualifiedName())
	}
	r.columns = append(r.columns, c)
	return nil
}

// Columns returns the criteria ordered by column index
func (r *Report) Columns() []ColumnCriteria {
	return SortColumns(r.columns)
}
