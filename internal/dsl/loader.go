package dsl

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"go.uber.org/zap"

	"github.com/toyz/metagen/internal/compiler"
	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/models"
	"github.com/toyz/metagen/internal/properties"
	"github.com/toyz/metagen/internal/report"
	"github.com/toyz/metagen/internal/utils"
)

// Loader builds the modules of parsed model files on a compiler. Files are
// loaded together so that they can reference each other's objects.
type Loader struct {
	compiler *compiler.Compiler
	catalog  *properties.Catalog
	parser   *Parser
	logger   *zap.Logger

	files   []*File
	modules map[*File]*models.Module
}

// NewLoader creates a loader; a nil catalog uses the built-in property kinds
func NewLoader(c *compiler.Compiler, catalog *properties.Catalog, logger *zap.Logger) *Loader {
	if catalog == nil {
		catalog = properties.DefaultCatalog()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{
		compiler: c,
		catalog:  catalog,
		parser:   NewParser(),
		logger:   logger,
		modules:  make(map[*File]*models.Module),
	}
}

// AddSource parses src and queues it for Load
func (l *Loader) AddSource(filename string, src []byte) error {
	file, err := l.parser.Parse(filename, src)
	if err != nil {
		return err
	}
	l.files = append(l.files, file)
	return nil
}

// AddFile parses the model file at path and queues it for Load
func (l *Loader) AddFile(path string) error {
	file, err := l.parser.ParseFile(path)
	if err != nil {
		return err
	}
	l.files = append(l.files, file)
	return nil
}

// Load declares every queued file on the compiler. Declarations happen in
// passes: modules, choices and objects first, then fields, properties and
// actions, then dependencies and bindings, then reports.
func (l *Loader) Load() error {
	passes := []struct {
		name string
		run  func(*File) error
	}{
		{"declare", l.declare},
		{"define", l.define},
		{"connect", l.connect},
		{"report", l.report},
	}
	for _, pass := range passes {
		for _, file := range l.files {
			if err := pass.run(file); err != nil {
				return err
			}
		}
		l.logger.Debug("model pass complete", zap.String("pass", pass.name), zap.Int("files", len(l.files)))
	}
	l.files = nil
	return nil
}

// LoadFiles parses and loads the model files at paths
func LoadFiles(c *compiler.Compiler, logger *zap.Logger, paths ...string) error {
	loader := NewLoader(c, nil, logger)
	for _, path := range paths {
		if err := loader.AddFile(path); err != nil {
			return err
		}
	}
	return loader.Load()
}

func (l *Loader) declare(file *File) error {
	decl := file.Module
	module, ok := l.compiler.Module(decl.Name)
	if ok {
		if module.Path != decl.Path {
			return at(decl.Pos, errors.NewIllegalStateError(decl.Name, "declare module",
				fmt.Sprintf("already declared with import path %q", module.Path)))
		}
	} else {
		module = models.NewModule(decl.Name, decl.Path)
		if err := l.compiler.AddModule(module); err != nil {
			return at(decl.Pos, err)
		}
	}
	l.modules[file] = module

	for _, entry := range file.Entries {
		switch {
		case entry.Choice != nil:
			values := make([]models.ChoiceValue, len(entry.Choice.Values))
			for i, v := range entry.Choice.Values {
				values[i] = models.ChoiceValue{Code: v.Code, Label: v.Label}
			}
			if err := module.AddChoice(models.NewChoiceCategory(entry.Choice.Name, values...)); err != nil {
				return at(entry.Choice.Pos, err)
			}
		case entry.Object != nil:
			if _, err := module.CreateDataObject(entry.Object.Name, entry.Object.Label); err != nil {
				return at(entry.Object.Pos, err)
			}
		}
	}
	return nil
}

func (l *Loader) define(file *File) error {
	module := l.modules[file]
	for _, entry := range file.Entries {
		switch {
		case entry.Object != nil:
			if err := l.defineObject(module, entry.Object); err != nil {
				return err
			}
		case entry.Action != nil:
			action, err := l.action(module, entry.Action)
			if err != nil {
				return err
			}
			if err := module.AddAction(action); err != nil {
				return at(entry.Action.Pos, err)
			}
		}
	}
	return nil
}

func (l *Loader) defineObject(module *models.Module, decl *ObjectDecl) error {
	object, _ := module.DataObject(decl.Name)
	for _, member := range decl.Members {
		switch {
		case member.Field != nil:
			field, err := l.field(module, member.Field)
			if err != nil {
				return err
			}
			if err := object.AddField(field); err != nil {
				return at(member.Field.Pos, err)
			}
		case member.Property != nil:
			p, err := l.property(module, member.Property)
			if err != nil {
				return at(member.Property.Pos, err)
			}
			if err := object.AddProperty(p); err != nil {
				return at(member.Property.Pos, err)
			}
		}
	}
	return nil
}

func (l *Loader) field(module *models.Module, decl *FieldDecl) (*models.Field, error) {
	if decl.Choice == "" {
		return models.NewField(decl.Name, decl.Label, models.FieldType(decl.Type)), nil
	}
	choice, err := l.choice(module, decl.Choice)
	if err != nil {
		return nil, at(decl.Pos, err)
	}
	return models.NewChoiceField(decl.Name, decl.Label, choice), nil
}

func (l *Loader) property(module *models.Module, decl *PropertyDecl) (models.Property, error) {
	values := make(map[string]string, len(decl.Args))
	for _, arg := range decl.Args {
		values[arg.Key] = arg.Value
	}
	return l.catalog.Create(decl.Code.Kind, properties.Arguments{
		Name:   decl.Code.Name,
		Values: values,
		Lookup: func(ref string) (*models.DataObject, error) {
			return l.object(module, ref)
		},
	})
}

func (l *Loader) action(module *models.Module, decl *ActionDecl) (*models.Action, error) {
	action := models.NewAction(decl.Name)
	for _, arg := range decl.Arguments {
		var content models.ArgumentContent
		switch {
		case arg.ObjectID != "":
			object, err := l.object(module, arg.ObjectID)
			if err != nil {
				return nil, at(arg.Pos, err)
			}
			content = models.NewObjectIDArgument(arg.Name, object)
		case arg.String:
			content = models.NewStringArgument(arg.Name, arg.MaxLength)
		case arg.Integer:
			content = models.NewIntegerArgument(arg.Name)
		default:
			choice, err := l.choice(module, arg.Choice)
			if err != nil {
				return nil, at(arg.Pos, err)
			}
			content = models.NewChoiceArgument(arg.Name, choice)
		}
		if arg.Direction == "output" {
			action.AddOutput(content)
		} else {
			action.AddInput(content)
		}
	}
	return action, nil
}

func (l *Loader) connect(file *File) error {
	module := l.modules[file]
	for _, entry := range file.Entries {
		switch {
		case entry.Object != nil:
			object, _ := module.DataObject(entry.Object.Name)
			for _, member := range entry.Object.Members {
				if member.Depends == nil {
					continue
				}
				if err := l.depends(module, object, member.Depends); err != nil {
					return at(member.Depends.Pos, err)
				}
			}
		case entry.Bind != nil:
			decl := entry.Bind
			l.compiler.AfterControl(func() error {
				if err := l.bind(module, decl); err != nil {
					return at(decl.Pos, err)
				}
				return nil
			})
		}
	}
	return nil
}

func (l *Loader) depends(module *models.Module, object *models.DataObject, decl *DependsDecl) error {
	p, err := object.PropertyByName(decl.Property.String())
	if err != nil {
		return err
	}
	if decl.Of == "" {
		return p.AddDependencyOnCode(decl.Target.String())
	}
	other, err := l.object(module, decl.Of)
	if err != nil {
		return err
	}
	target, err := other.PropertyByName(decl.Target.String())
	if err != nil {
		return err
	}
	return p.AddDependentProperty(target)
}

// bind runs after control, once LINKOBJECTTOMASTER has installed the
// property on the right object
func (l *Loader) bind(module *models.Module, decl *BindDecl) error {
	object, err := l.object(module, decl.Object)
	if err != nil {
		return err
	}
	p, err := object.PropertyByName(decl.Property.String())
	if err != nil {
		return err
	}
	right, ok := p.(*properties.RightForLinkToMaster)
	if !ok {
		return errors.NewActionArgumentError(object.QualifiedName(), p.QualifiedCode(), decl.Action,
			"property does not accept actions")
	}
	action, err := l.lookupAction(module, decl.Action)
	if err != nil {
		return err
	}
	switch decl.Slot {
	case "link":
		return right.AddActionOnSelectedLinkID(action)
	case "left":
		return right.AddActionOnSelectedLeftObjectID(action)
	default:
		return right.AddActionOnObjectID(action)
	}
}

func (l *Loader) report(file *File) error {
	module := l.modules[file]
	for _, entry := range file.Entries {
		if entry.Report == nil {
			continue
		}
		r, err := l.buildReport(module, entry.Report)
		if err != nil {
			return err
		}
		if err := l.compiler.AddReport(r); err != nil {
			return at(entry.Report.Pos, err)
		}
	}
	return nil
}

func (l *Loader) buildReport(module *models.Module, decl *ReportDecl) (*report.Report, error) {
	object, err := l.object(module, decl.Object)
	if err != nil {
		return nil, at(decl.Pos, err)
	}
	node := report.NewNode(utils.AttributeName(object.Name), object)
	r := report.NewReport(decl.Name, decl.Label, node)
	for _, column := range decl.Columns {
		field, ok := object.Field(column.Field)
		if !ok {
			return nil, at(column.Pos, errors.NewUnknownObjectError(object.QualifiedName(), "field "+column.Field))
		}
		opts := []report.Option{report.WithColumnIndex(column.Index)}
		if column.Suffix != "" {
			opts = append(opts, report.WithSuffix(column.Suffix))
		}
		var criteria report.ColumnCriteria
		if field.Type == models.FieldChoice {
			criteria, err = report.NewChoiceColumnCriteria(node, field, opts...)
		} else {
			criteria, err = report.NewFieldColumnCriteria(node, field, opts...)
		}
		if err != nil {
			return nil, at(column.Pos, err)
		}
		if err := r.AddColumn(criteria); err != nil {
			return nil, at(column.Pos, err)
		}
	}
	return r, nil
}

// resolve splits "module/Name" references; unqualified names resolve in from
func (l *Loader) resolve(from *models.Module, ref string) (*models.Module, string, error) {
	moduleName, name, qualified := strings.Cut(ref, "/")
	if !qualified {
		return from, ref, nil
	}
	module, ok := l.compiler.Module(moduleName)
	if !ok {
		return nil, "", errors.NewUnknownObjectError(from.Name, "module "+moduleName)
	}
	return module, name, nil
}

func (l *Loader) object(from *models.Module, ref string) (*models.DataObject, error) {
	module, name, err := l.resolve(from, ref)
	if err != nil {
		return nil, err
	}
	object, ok := module.DataObject(name)
	if !ok {
		return nil, errors.NewUnknownObjectError(module.Name, name)
	}
	return object, nil
}

func (l *Loader) choice(from *models.Module, ref string) (*models.ChoiceCategory, error) {
	module, name, err := l.resolve(from, ref)
	if err != nil {
		return nil, err
	}
	choice, ok := module.Choice(name)
	if !ok {
		return nil, errors.NewUnknownObjectError(module.Name, "choice "+name)
	}
	return choice, nil
}

func (l *Loader) lookupAction(from *models.Module, ref string) (*models.Action, error) {
	module, name, err := l.resolve(from, ref)
	if err != nil {
		return nil, err
	}
	action, ok := module.Action(name)
	if !ok {
		return nil, errors.NewUnknownObjectError(module.Name, "action "+name)
	}
	return action, nil
}

// at prefixes err with a model file position
func at(pos lexer.Position, err error) error {
	return fmt.Errorf("%s: %w", pos, err)
}
