package properties

import (
	"strconv"
	"strings"

	"github.com/toyz/metagen/internal/models"
)

// LinkToMasterFromRightTable shows, on a right object page, the links
// pointing at it together with their left objects
type LinkToMasterFromRightTable struct {
	property *RightForLinkToMaster
}

// NewLinkToMasterFromRightTable creates the widget for property
func NewLinkToMasterFromRightTable(property *RightForLinkToMaster) *LinkToMasterFromRightTable {
	return &LinkToMasterFromRightTable{property: property}
}

func (w *LinkToMasterFromRightTable) Name() string { return "RIGHTFORLINKTABLE" }

func (w *LinkToMasterFromRightTable) Property() models.Property { return w.property }

func (w *LinkToMasterFromRightTable) DisplayPriority() int { return w.property.DisplayPriority() }

func (w *LinkToMasterFromRightTable) ImportStatements() []string {
	return moduleImports(w.property.Parent().Module(), w.property.LinkObject(), w.property.LeftObject())
}

// FuncName is the generated function returning the table description
func (w *LinkToMasterFromRightTable) FuncName() string {
	return w.property.Parent().ClassName() + w.property.LinkObject().ClassName() + "FromRightTable"
}

// Code emits a function describing the link table and its actions
func (w *LinkToMasterFromRightTable) Code() []string {
	p := w.property
	module := p.Parent().Module()
	return []string{
		"// " + w.FuncName() + " lists the " + p.LinkObject().Label + " links of a " + p.Parent().Label + ".",
		"func " + w.FuncName() + "() rt.LinkTable {",
		"return rt.LinkTable{",
		"Widget: " + quote(w.Name()) + ",",
		"Title: " + quote(p.LinkObject().Label) + ",",
		"LinkTable: " + quote(p.LinkObject().TableName()) + ",",
		"LeftTable: " + quote(p.LeftObject().TableName()) + ",",
		"NewLink: func() any { return new(" + typeRef(module, p.LinkObject()) + ") },",
		"NewLeft: func() any { return new(" + typeRef(module, p.LeftObject()) + ") },",
		"ObjectActions: " + actionList(p.ActionsOnObjectID()) + ",",
		"LinkActions: " + actionList(p.ActionsOnSelectedLinkID()) + ",",
		"LeftActions: " + actionList(p.ActionsOnSelectedLeftObjectID()) + ",",
		"Priority: " + strconv.Itoa(w.DisplayPriority()) + ",",
		"}",
		"}",
	}
}

func actionList(actions []*models.Action) string {
	if len(actions) == 0 {
		return "nil"
	}
	names := make([]string, len(actions))
	for i, action := range actions {
		names[i] = quote(action.QualifiedName())
	}
	return "[]string{" + strings.Join(names, ", ") + "}"
}
