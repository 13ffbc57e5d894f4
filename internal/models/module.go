package models

import (
	"path"
	"strings"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/utils"
)

// Module owns data objects, choice categories and actions, and gives them
// the import path their generated code lives under.
type Module struct {
	Name string // module code, e.g. "sales"
	Path string // import path of the generated package

	objects *utils.BaseRegistry[string, *DataObject]
	choices *utils.BaseRegistry[string, *ChoiceCategory]
	actions *utils.BaseRegistry[string, *Action]
	frozen  bool
}

// NewModule creates an empty module
func NewModule(name, importPath string) *Module {
	return &Module{
		Name:    name,
		Path:    importPath,
		objects: utils.NewBaseRegistry[string, *DataObject]("module "+name, "data object name", "data object"),
		choices: utils.NewBaseRegistry[string, *ChoiceCategory]("module "+name, "choice name", "choice category"),
		actions: utils.NewBaseRegistry[string, *Action]("module "+name, "action name", "action"),
	}
}

// PackageName returns the Go package name of the generated code
func (m *Module) PackageName() string {
	name := utils.AttributeName(path.Base(m.Path))
	if name == "" {
		name = utils.AttributeName(m.Name)
	}
	return name
}

// CreateDataObject declares a new data object in the module
func (m *Module) CreateDataObject(name, label string) (*DataObject, error) {
	if m.frozen {
		return nil, errors.NewIllegalStateError(name, "create data object", "module '"+m.Name+"' is frozen")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.NewIllegalStateError(name, "create data object", "name cannot be empty")
	}
	if m.objects.Has(name) {
		return nil, errors.NewDuplicateObjectError(m.Name, name)
	}

	object := newDataObject(m, name, label)
	if err := m.objects.Register(name, object); err != nil {
		return nil, err
	}
	return object, nil
}

// DataObject looks up a data object by name
func (m *Module) DataObject(name string) (*DataObject, bool) {
	return m.objects.Get(name)
}

// DataObjects returns the data objects in declaration order
func (m *Module) DataObjects() []*DataObject {
	return m.objects.Values()
}

// AddChoice registers a choice category
func (m *Module) AddChoice(choice *ChoiceCategory) error {
	if m.frozen {
		return errors.NewIllegalStateError(choice.Name, "add choice", "module '"+m.Name+"' is frozen")
	}
	if m.choices.Has(choice.Name) {
		return errors.NewDuplicateObjectError(m.Name, choice.Name)
	}
	choice.module = m
	return m.choices.Register(choice.Name, choice)
}

// Choice looks up a choice category by name
func (m *Module) Choice(name string) (*ChoiceCategory, bool) {
	return m.choices.Get(name)
}

// Choices returns the choice categories in declaration order
func (m *Module) Choices() []*ChoiceCategory {
	return m.choices.Values()
}

// AddAction registers an action
func (m *Module) AddAction(action *Action) error {
	if m.frozen {
		return errors.NewIllegalStateError(action.Name, "add action", "module '"+m.Name+"' is frozen")
	}
	if m.actions.Has(action.Name) {
		return errors.NewDuplicateObjectError(m.Name, action.Name)
	}
	action.module = m
	return m.actions.Register(action.Name, action)
}

// Action looks up an action by name
func (m *Module) Action(name string) (*Action, bool) {
	return m.actions.Get(name)
}

// Actions returns the actions in declaration order
func (m *Module) Actions() []*Action {
	return m.actions.Values()
}

// Freeze forbids further declarations on the module
func (m *Module) Freeze() {
	m.frozen = true
}

// IsFrozen reports whether Freeze was called
func (m *Module) IsFrozen() bool {
	return m.frozen
}
