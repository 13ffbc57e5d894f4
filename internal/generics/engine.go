// Package generics instantiates properties that are parameterized by other
// data objects and keeps the resulting bindings for code generation.
package generics

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/models"
	"github.com/toyz/metagen/internal/utils"
)

// Engine checks generics bindings against role contracts and indexes them
type Engine struct {
	logger *zap.Logger
	index  *utils.BaseRegistry[models.Property, []*models.PropertyGenerics]
}

// NewEngine creates an empty engine
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		logger: logger,
		index:  utils.NewBaseRegistry[models.Property, []*models.PropertyGenerics]("generics index", "property", "bindings"),
	}
}

// Bind finds the property of object that satisfies the template's parameter for role
func (e *Engine) Bind(template models.Property, role string, object *models.DataObject) (*models.PropertyGenerics, error) {
	param, ok := parameter(template, role)
	if !ok {
		return nil, errors.NewIncompatibleGenericsError(template.Code(), role, declaredRoles(template), "an undeclared role")
	}
	if object == nil {
		return nil, errors.NewIncompatibleGenericsError(template.Code(), role, param.Expectation(), "no data object")
	}
	for _, p := range object.Properties() {
		if accepted, _ := param.Accepts(p); accepted {
			return models.NewPropertyGenerics(role, object, p), nil
		}
	}
	return nil, errors.NewIncompatibleGenericsError(template.Code(), role,
		param.Expectation()+" on "+object.QualifiedName(),
		"data object "+object.QualifiedName()+" has no such property")
}

// Instantiate checks bindings against the template's generic parameters,
// attaches the template to target and records the bindings. Nothing is
// attached or recorded when a check fails.
func (e *Engine) Instantiate(template models.Property, target *models.DataObject, bindings ...*models.PropertyGenerics) error {
	if target == nil {
		return errors.NewIllegalStateError("<nil>", "instantiate "+template.Code(), "no target data object")
	}
	if parent := template.Parent(); parent != nil {
		return errors.NewIllegalStateError(target.QualifiedName(), "instantiate "+template.Code(),
			"property is already attached to '"+parent.QualifiedName()+"'")
	}

	all := append(append([]*models.PropertyGenerics(nil), template.Generics()...), bindings...)
	if err := check(template, all); err != nil {
		return err
	}

	if err := target.AddProperty(template); err != nil {
		return err
	}
	for _, binding := range bindings {
		if err := template.AddPropertyGenerics(binding); err != nil {
			return err
		}
	}
	e.record(template)

	e.logger.Debug("property instantiated",
		zap.String("property", template.QualifiedCode()),
		zap.Strings("bindings", describe(template.Generics())))
	return nil
}

// Validate checks the bindings p recorded itself and indexes them
func (e *Engine) Validate(p models.Property) error {
	if err := check(p, p.Generics()); err != nil {
		return err
	}
	e.record(p)
	return nil
}

// Bindings returns the indexed bindings of p
func (e *Engine) Bindings(p models.Property) []*models.PropertyGenerics {
	bindings, _ := e.index.Get(p)
	return bindings
}

// Binding returns the indexed binding of p for role
func (e *Engine) Binding(p models.Property, role string) (*models.PropertyGenerics, bool) {
	for _, binding := range e.Bindings(p) {
		if binding.Role == role {
			return binding, true
		}
	}
	return nil, false
}

// QualifiedTypeName returns the fully qualified generated type of the object bound to role,
// e.g. "example.com/shop/gen/sales.OrderLine"
func (e *Engine) QualifiedTypeName(p models.Property, role string) (string, error) {
	binding, ok := e.Binding(p, role)
	if !ok {
		return "", errors.NewIncompatibleGenericsError(p.QualifiedCode(), role, "a recorded binding", "none")
	}
	return QualifiedTypeName(binding.Object), nil
}

// Bound returns the properties with indexed bindings, in registration order
func (e *Engine) Bound() []models.Property {
	return e.index.List()
}

func (e *Engine) record(p models.Property) {
	if len(p.Generics()) == 0 {
		return
	}
	_ = e.index.Register(p, append([]*models.PropertyGenerics(nil), p.Generics()...))
}

// QualifiedTypeName returns "<module import path>.<ClassName>" for object
func QualifiedTypeName(object *models.DataObject) string {
	if object.Module() == nil || object.Module().Path == "" {
		return object.ClassName()
	}
	return object.Module().Path + "." + object.ClassName()
}

// check validates bindings against the declared parameters of p
func check(p models.Property, bindings []*models.PropertyGenerics) error {
	seen := make(map[string]bool)
	for _, binding := range bindings {
		if binding == nil {
			return errors.NewIncompatibleGenericsError(p.Code(), "", declaredRoles(p), "a nil binding")
		}
		param, ok := parameter(p, binding.Role)
		if !ok {
			return errors.NewIncompatibleGenericsError(p.Code(), binding.Role, declaredRoles(p), "an undeclared role")
		}
		if seen[binding.Role] {
			return errors.NewIncompatibleGenericsError(p.Code(), binding.Role, "a single binding", "a second binding")
		}
		seen[binding.Role] = true

		if binding.Object == nil || binding.Property == nil {
			return errors.NewIncompatibleGenericsError(p.Code(), binding.Role, param.Expectation(), "an incomplete binding")
		}
		if binding.Property.Parent() != binding.Object {
			return errors.NewIncompatibleGenericsError(p.Code(), binding.Role,
				"a property attached to "+binding.Object.QualifiedName(),
				fmt.Sprintf("property %s", binding.Property.QualifiedCode()))
		}
		if registered, err := binding.Object.PropertyByName(binding.Property.Code()); err != nil || registered != binding.Property {
			return errors.NewIncompatibleGenericsError(p.Code(), binding.Role,
				"a property registered on "+binding.Object.QualifiedName(),
				fmt.Sprintf("unregistered property %s", binding.Property.Code()))
		}
		if accepted, actual := param.Accepts(binding.Property); !accepted {
			return errors.NewIncompatibleGenericsError(p.Code(), binding.Role,
				param.Expectation()+" on "+binding.Object.QualifiedName(), actual)
		}
	}

	for _, param := range p.GenericParameters() {
		if !seen[param.Role] {
			return errors.NewIncompatibleGenericsError(p.Code(), param.Role, param.Expectation(), "no binding")
		}
	}
	return nil
}

func parameter(p models.Property, role string) (models.GenericParameter, bool) {
	for _, param := range p.GenericParameters() {
		if param.Role == role {
			return param, true
		}
	}
	return models.GenericParameter{}, false
}

func declaredRoles(p models.Property) string {
	var roles []string
	for _, param := range p.GenericParameters() {
		roles = append(roles, param.Role)
	}
	if len(roles) == 0 {
		return "no generics"
	}
	return "one of " + strings.Join(roles, ", ")
}

func describe(bindings []*models.PropertyGenerics) []string {
	result := make([]string, len(bindings))
	for i, binding := range bindings {
		result[i] = binding.String()
	}
	return result
}
