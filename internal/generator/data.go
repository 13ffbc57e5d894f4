package generator

import (
	"path/filepath"
	"strconv"

	"go.uber.org/zap"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/models"
	"github.com/toyz/metagen/internal/report"
	"github.com/toyz/metagen/internal/utils"
)

// PropertyOutput is what one property contributes to its object's file
type PropertyOutput struct {
	Property         models.Property
	GoType           string
	Imports          []string
	LabelExtractor   string
	PayloadExtractor string
	PayloadTypeName  string
}

type objectData struct {
	Package       string
	Imports       string
	Class         string
	Label         string
	QualifiedName string
	TypeID        string
	Fields        []fieldData
	Properties    []propertyData
	Methods       []methodData
	Hooks         []hookData
	Dependent     [][]string
	Widgets       [][]string
}

type fieldData struct {
	Name    string
	Type    string
	Extract string
}

type propertyData struct {
	Code        string
	Class       string
	Field       string
	Type        string
	Init        []string
	Extract     []string
	DeepCopy    []string
	Label       string
	Payload     string
	PayloadType string
}

type methodData struct {
	Name   string
	Kind   models.MethodKind
	Owner  string
	Before []string
	Body   []string
	After  []string
}

type hookData struct {
	Name      string
	Phase     string
	Method    string
	Declaring string
	Body      []string
}

// classNamer is implemented by properties embedding *models.BaseProperty
type classNamer interface {
	ClassName() string
	FieldName() string
}

// PropertyOutputs returns the import, label and payload contract of every
// property of a finalized object, in resolver order
func (g *Generator) PropertyOutputs(object *models.DataObject) ([]PropertyOutput, error) {
	ordered, err := object.OrderedProperties()
	if err != nil {
		return nil, err
	}
	outputs := make([]PropertyOutput, 0, len(ordered))
	for _, p := range ordered {
		goType, err := p.GoType()
		if err != nil {
			genErr := errors.NewGenerationError(object.QualifiedName(), p.Code(), "type", err)
			genErr.WithSuggestion("Implement GoType for property kind " + p.Kind())
			return nil, genErr
		}
		imports := NewImportSet()
		if err := imports.AddAll(p.ImportStatements()...); err != nil {
			return nil, errors.NewGenerationError(object.QualifiedName(), p.Code(), "imports", err)
		}
		outputs = append(outputs, PropertyOutput{
			Property:         p,
			GoType:           goType,
			Imports:          imports.Specs(),
			LabelExtractor:   p.LabelExtractor(),
			PayloadExtractor: p.PayloadExtractor(),
			PayloadTypeName:  p.PayloadTypeName(),
		})
	}
	return outputs, nil
}

func (g *Generator) objectData(object *models.DataObject) (*objectData, error) {
	outputs, err := g.PropertyOutputs(object)
	if err != nil {
		return nil, err
	}

	data := &objectData{
		Package:       object.Module().PackageName(),
		Class:         object.ClassName(),
		Label:         object.Label,
		QualifiedName: object.QualifiedName(),
		TypeID:        TypeID(object).String(),
	}
	imports := g.newImports()

	for _, f := range object.Fields() {
		if err := imports.AddAll(f.ImportStatements()...); err != nil {
			return nil, errors.NewGenerationError(object.QualifiedName(), f.Name, "imports", err)
		}
		data.Fields = append(data.Fields, fieldData{Name: f.AttributeName(), Type: f.GoType(), Extract: f.ExtractExpression("row")})
	}

	var widgets []models.Widget
	for _, out := range outputs {
		p := out.Property
		if err := imports.AddAll(out.Imports...); err != nil {
			return nil, errors.NewGenerationError(object.QualifiedName(), p.Code(), "imports", err)
		}
		names, ok := p.(classNamer)
		if !ok {
			return nil, errors.NewGenerationError(object.QualifiedName(), p.Code(), "type",
				errors.New(errors.GenerationErrorCode, "property does not embed a base property"))
		}
		data.Properties = append(data.Properties, propertyData{
			Code:        p.Code(),
			Class:       names.ClassName(),
			Field:       names.FieldName(),
			Type:        out.GoType,
			Init:        p.InitStatements(),
			Extract:     p.ExtractStatements(),
			DeepCopy:    p.DeepCopyStatements(),
			Label:       out.LabelExtractor,
			Payload:     out.PayloadExtractor,
			PayloadType: out.PayloadTypeName,
		})

		for _, method := range p.DataAccessMethods() {
			data.Methods = append(data.Methods, g.methodData(method))
		}
		if code := p.DependentCode(); len(code) > 0 {
			data.Dependent = append(data.Dependent, code)
		}
		widgets = append(widgets, p.Widgets()...)
	}

	hooks, err := g.hookData(object)
	if err != nil {
		return nil, err
	}
	data.Hooks = hooks
	if len(data.Methods) > 0 || len(data.Hooks) > 0 {
		_ = imports.Add(strconv.Quote("context"))
	}

	sortWidgets(widgets)
	for _, w := range widgets {
		if err := imports.AddAll(w.ImportStatements()...); err != nil {
			return nil, errors.NewGenerationError(object.QualifiedName(), w.Property().Code(), "imports", err)
		}
		data.Widgets = append(data.Widgets, w.Code())
	}

	data.Imports = imports.GenerateImports()
	g.logger.Debug("object rendered",
		zap.String("object", object.QualifiedName()),
		zap.Int("properties", len(data.Properties)),
		zap.Int("methods", len(data.Methods)),
		zap.Int("hooks", len(data.Hooks)))
	return data, nil
}

// methodData weaves the merged hooks of method around its core body
func (g *Generator) methodData(method models.DataAccessMethod) methodData {
	m := methodData{
		Name:  method.FuncName(),
		Kind:  method.Kind,
		Owner: method.Owner.Code(),
		Body:  method.Owner.DataAccessBody(method),
	}
	for _, hook := range g.hooks.Before(method) {
		m.Before = append(m.Before, hook.FuncName())
	}
	for _, hook := range g.hooks.After(method) {
		m.After = append(m.After, hook.FuncName())
	}
	return m
}

// hookData lists the hook functions woven into the methods of object
func (g *Generator) hookData(object *models.DataObject) ([]hookData, error) {
	ordered, err := object.OrderedProperties()
	if err != nil {
		return nil, err
	}
	var result []hookData
	for _, p := range ordered {
		for _, method := range p.DataAccessMethods() {
			for _, phase := range []models.Phase{models.Before, models.After} {
				for _, hook := range g.hooks.Hooks(method, phase) {
					result = append(result, hookData{
						Name:      hook.FuncName(),
						Phase:     phase.String(),
						Method:    method.FuncName(),
						Declaring: hook.Declaring().QualifiedCode(),
						Body:      hook.Declaring().HookStatements(hook),
					})
				}
			}
		}
	}
	return result, nil
}

type choicesData struct {
	Package string
	Imports string
	Choices []choiceData
}

type choiceData struct {
	Name   string
	Class  string
	Values []models.ChoiceValue
}

func (g *Generator) renderChoices(module *models.Module) (*File, error) {
	data := choicesData{Package: module.PackageName(), Imports: g.newImports().GenerateImports()}
	for _, choice := range module.Choices() {
		data.Choices = append(data.Choices, choiceData{
			Name:   choice.Name,
			Class:  choice.DefinitionClassName(),
			Values: choice.Values,
		})
	}
	return g.render("choices", filepath.Join(g.ModuleDir(module), "choices_gen.go"), module.Name, data)
}

type actionsData struct {
	Package string
	Imports string
	Actions []actionData
}

type actionData struct {
	Name          string
	QualifiedName string
	Class         string
	Inputs        []argumentData
	Outputs       []argumentData
}

type argumentData struct {
	Name string
	Type string
}

func (g *Generator) renderActions(module *models.Module) (*File, error) {
	imports := g.newImports()
	data := actionsData{Package: module.PackageName()}
	for _, action := range module.Actions() {
		a := actionData{
			Name:          action.Name,
			QualifiedName: action.QualifiedName(),
			Class:         utils.ClassName(action.Name),
		}
		for _, arg := range action.Inputs {
			argument, err := argumentType(module, arg, imports)
			if err != nil {
				return nil, errors.NewGenerationError(action.QualifiedName(), arg.Name(), "imports", err)
			}
			a.Inputs = append(a.Inputs, argument)
		}
		for _, arg := range action.Outputs {
			argument, err := argumentType(module, arg, imports)
			if err != nil {
				return nil, errors.NewGenerationError(action.QualifiedName(), arg.Name(), "imports", err)
			}
			a.Outputs = append(a.Outputs, argument)
		}
		data.Actions = append(data.Actions, a)
	}
	data.Imports = imports.GenerateImports()
	return g.render("actions", filepath.Join(g.ModuleDir(module), "actions_gen.go"), module.Name, data)
}

// argumentType qualifies choice arguments defined in another module
func argumentType(from *models.Module, arg models.ArgumentContent, imports *ImportSet) (argumentData, error) {
	data := argumentData{Name: utils.ClassName(arg.Name()), Type: arg.GoType()}
	if choice, ok := arg.(*models.ChoiceArgument); ok {
		if module := choice.Choice.Module(); module != nil && module != from {
			if err := imports.AddPackage(module.PackageName(), module.Path); err != nil {
				return data, err
			}
			data.Type = "rt.ChoiceValue[" + module.PackageName() + "." + choice.Choice.DefinitionClassName() + "]"
		}
	}
	return data, nil
}

type reportData struct {
	Package string
	Imports string
	Class   string
	Name    string
	Label   string
	Object  string
	Columns []columnData
}

type columnData struct {
	Label     string
	Payload   string
	Index     int
	ValueFunc string
	Step      string
	Value     []string
}

func (g *Generator) reportData(r *report.Report) (*reportData, error) {
	module := r.Module()
	imports := g.newImports()
	data := &reportData{
		Package: module.PackageName(),
		Class:   r.ClassName(),
		Name:    r.Name,
		Label:   r.Label,
		Object:  r.Node().Object.ClassName(),
	}
	for i, column := range r.Columns() {
		if err := imports.AddAll(column.ImportStatements(module)...); err != nil {
			return nil, errors.NewGenerationError(r.Name, "", "imports", err)
		}
		prefix := strconv.Itoa(i)
		data.Columns = append(data.Columns, columnData{
			Label:     column.LabelExtractor(module),
			Payload:   column.PayloadExtractor(module),
			Index:     column.ColumnIndex(),
			ValueFunc: utils.AttributeName(r.Name) + "Column" + prefix,
			Step:      column.Node().StepVariable(prefix),
			Value:     column.ColumnValueStatements(prefix),
		})
	}
	data.Imports = imports.GenerateImports()
	return data, nil
}
