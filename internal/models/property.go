package models

import (
	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/utils"
)

// Property is a behavioral trait attached to exactly one data object.
// Concrete properties embed *BaseProperty and override the emission
// contract methods they support.
type Property interface {
	Kind() string
	Name() string
	Code() string
	QualifiedCode() string
	Parent() *DataObject

	Dependencies() []Dependency
	Generics() []*PropertyGenerics
	GenericParameters() []GenericParameter
	Capabilities() []Capability
	DataAccessMethods() []DataAccessMethod
	AdditionalProcessing() []*MethodAdditionalProcessing
	ExternalObjectDependence() []*DataObject

	AddDependentProperty(dependency Property) error
	AddDependencyOnCode(code string) error
	AddPropertyGenerics(generics *PropertyGenerics) error
	AddMethodAdditionalProcessing(hook *MethodAdditionalProcessing) error

	// ControlAfterParentDefinition runs once the parent's definition is complete
	ControlAfterParentDefinition(ctx DefinitionContext) error
	// SetFinalSettings runs once every prerequisite of the property is finalized
	SetFinalSettings() error

	// Emission contract
	GoType() (string, error)
	ImportStatements() []string
	InitStatements() []string
	ExtractStatements() []string
	DeepCopyStatements() []string
	LabelExtractor() string
	PayloadExtractor() string
	PayloadTypeName() string
	DataAccessBody(method DataAccessMethod) []string
	HookStatements(hook *MethodAdditionalProcessing) []string
	DependentCode() []string
	Widgets() []Widget

	base() *BaseProperty
}

// Dependency names a property that must be finalized first.
// A nil Object means the declaring property's own parent.
type Dependency struct {
	Object *DataObject
	Code   string
}

// BaseProperty holds the state shared by every property and the default
// emission contract.
type BaseProperty struct {
	kind string
	name string

	parent *DataObject
	self   Property

	dependencies []Dependency
	generics     []*PropertyGenerics
	parameters   []GenericParameter
	capabilities []Capability
	methods      []MethodKind
	hooks        []*MethodAdditionalProcessing
	externals    []*DataObject
	widgets      []Widget

	controlled bool
	settled    bool
}

// NewBaseProperty creates the shared part of a property. name may be empty
// when the kind is attached at most once per object.
func NewBaseProperty(kind, name string) *BaseProperty {
	return &BaseProperty{kind: kind, name: name}
}

func (b *BaseProperty) base() *BaseProperty { return b }

func (b *BaseProperty) attach(parent *DataObject, self Property) {
	b.parent = parent
	b.self = self
}

// Kind returns the property kind, e.g. "VERSIONED"
func (b *BaseProperty) Kind() string { return b.kind }

// Name returns the instance name, empty for singleton kinds
func (b *BaseProperty) Name() string { return b.name }

// Code returns the registry key: the kind, or "KIND:NAME" for named instances
func (b *BaseProperty) Code() string {
	if b.name == "" {
		return b.kind
	}
	return b.kind + ":" + b.name
}

// QualifiedCode returns "module/object.CODE"
func (b *BaseProperty) QualifiedCode() string {
	if b.parent == nil {
		return b.Code()
	}
	return b.parent.QualifiedName() + "." + b.Code()
}

// Parent returns the owning data object, nil until attached
func (b *BaseProperty) Parent() *DataObject { return b.parent }

// ClassName is the Go identifier fragment for this property, e.g. "RightforlinktomasterOrderline"
func (b *BaseProperty) ClassName() string {
	return utils.ClassName(b.kind) + utils.ClassName(b.name)
}

// FieldName is the exported struct field holding this property's state.
// Stores read it by reflection.
func (b *BaseProperty) FieldName() string {
	return b.ClassName()
}

func (b *BaseProperty) Dependencies() []Dependency            { return b.dependencies }
func (b *BaseProperty) Generics() []*PropertyGenerics          { return b.generics }
func (b *BaseProperty) GenericParameters() []GenericParameter  { return b.parameters }
func (b *BaseProperty) Capabilities() []Capability             { return b.capabilities }
func (b *BaseProperty) ExternalObjectDependence() []*DataObject { return b.externals }
func (b *BaseProperty) Widgets() []Widget                      { return b.widgets }

// AdditionalProcessing returns the hooks this property contributes, in registration order
func (b *BaseProperty) AdditionalProcessing() []*MethodAdditionalProcessing { return b.hooks }

// GenericsFor returns the binding recorded for role
func (b *BaseProperty) GenericsFor(role string) (*PropertyGenerics, bool) {
	for _, g := range b.generics {
		if g.Role == role {
			return g, true
		}
	}
	return nil, false
}

// DeclareGenericParameters lists the roles this kind must be bound with
func (b *BaseProperty) DeclareGenericParameters(params ...GenericParameter) {
	b.parameters = append(b.parameters, params...)
}

// DeclareCapabilities lists what this kind offers to generics bound on it
func (b *BaseProperty) DeclareCapabilities(capabilities ...Capability) {
	b.capabilities = append(b.capabilities, capabilities...)
}

// DeclareDataAccessMethods lists the data access methods this property owns
func (b *BaseProperty) DeclareDataAccessMethods(kinds ...MethodKind) {
	b.methods = append(b.methods, kinds...)
}

// HandOverDataAccessMethods stops this property from owning methods of the
// given kinds. Used when another property of the object takes them over.
func (b *BaseProperty) HandOverDataAccessMethods(kinds ...MethodKind) error {
	if err := b.checkMutable("hand over data access methods"); err != nil {
		return err
	}
	kept := b.methods[:0]
	for _, kind := range b.methods {
		handed := false
		for _, k := range kinds {
			if k == kind {
				handed = true
				break
			}
		}
		if !handed {
			kept = append(kept, kind)
		}
	}
	b.methods = kept
	return nil
}

// DataAccessMethods returns the owned methods; empty until the property is attached
func (b *BaseProperty) DataAccessMethods() []DataAccessMethod {
	if b.self == nil {
		return nil
	}
	methods := make([]DataAccessMethod, 0, len(b.methods))
	for _, kind := range b.methods {
		methods = append(methods, DataAccessMethod{Kind: kind, Owner: b.self})
	}
	return methods
}

// DataAccessMethod returns the owned method of the given kind
func (b *BaseProperty) DataAccessMethod(kind MethodKind) (DataAccessMethod, bool) {
	for _, m := range b.DataAccessMethods() {
		if m.Kind == kind {
			return m, true
		}
	}
	return DataAccessMethod{}, false
}

// AddExternalObjectDependence records an object whose generated code this property references
func (b *BaseProperty) AddExternalObjectDependence(objects ...*DataObject) {
	for _, object := range objects {
		if object != nil && !containsObject(b.externals, object) {
			b.externals = append(b.externals, object)
		}
	}
}

// AddWidget records a nested widget created by this property
func (b *BaseProperty) AddWidget(w Widget) {
	b.widgets = append(b.widgets, w)
}

// AddDependentProperty declares that dependency must be finalized before this property
func (b *BaseProperty) AddDependentProperty(dependency Property) error {
	if err := b.checkMutable("add dependent property"); err != nil {
		return err
	}
	if dependency == nil {
		return errors.NewMissingDependencyError(b.parentName(), b.Code(), "<nil>")
	}
	if dependency.Parent() == nil {
		err := errors.NewMissingDependencyError(b.parentName(), b.Code(), dependency.Code())
		err.WithSuggestion("Attach the dependency to its data object before depending on it")
		return err
	}
	b.addDependency(Dependency{Object: dependency.Parent(), Code: dependency.Code()})
	return nil
}

// AddDependencyOnCode declares a dependency on a property code of the parent object.
// The code is checked when dependencies are resolved.
func (b *BaseProperty) AddDependencyOnCode(code string) error {
	if err := b.checkMutable("add dependency"); err != nil {
		return err
	}
	b.addDependency(Dependency{Code: code})
	return nil
}

func (b *BaseProperty) addDependency(d Dependency) {
	for _, existing := range b.dependencies {
		if existing == d {
			return
		}
	}
	b.dependencies = append(b.dependencies, d)
}

// AddPropertyGenerics records a binding of this property to another object and property
func (b *BaseProperty) AddPropertyGenerics(generics *PropertyGenerics) error {
	if err := b.checkMutable("add property generics"); err != nil {
		return err
	}
	if generics == nil || generics.Object == nil || generics.Property == nil {
		role := ""
		if generics != nil {
			role = generics.Role
		}
		return errors.NewIncompatibleGenericsError(b.Code(), role, "an object and a property", "an incomplete binding")
	}
	if _, exists := b.GenericsFor(generics.Role); exists {
		return errors.NewIncompatibleGenericsError(b.Code(), generics.Role, "a single binding", "a second binding")
	}
	b.generics = append(b.generics, generics)
	return nil
}

// AddMethodAdditionalProcessing attaches hook to a data access method of a target property.
// The target must be attached to its object and own the method.
func (b *BaseProperty) AddMethodAdditionalProcessing(hook *MethodAdditionalProcessing) error {
	if err := b.checkMutable("add method additional processing"); err != nil {
		return err
	}
	if hook == nil {
		return errors.NewUnresolvedHookTargetError(b.Code(), "<nil>", "", "no hook given")
	}
	if b.self == nil {
		return errors.NewUnresolvedHookTargetError(b.Code(), "", string(hook.Method.Kind), "declaring property is not attached")
	}
	target := hook.Method.Owner
	if target == nil {
		return errors.NewUnresolvedHookTargetError(b.Code(), "<nil>", string(hook.Method.Kind), "no target property")
	}
	parent := target.Parent()
	if parent == nil {
		return errors.NewUnresolvedHookTargetError(b.Code(), target.Code(), string(hook.Method.Kind), "target property is not attached")
	}
	if registered, ok := parent.properties.Get(target.Code()); !ok || registered != target {
		return errors.NewUnresolvedHookTargetError(b.Code(), target.QualifiedCode(), string(hook.Method.Kind),
			"target property is not registered on its data object")
	}
	if _, ok := target.base().DataAccessMethod(hook.Method.Kind); !ok {
		return errors.NewUnresolvedHookTargetError(b.Code(), target.QualifiedCode(), string(hook.Method.Kind),
			"target property does not own this method")
	}

	hook.declaring = b.self
	hook.sequence = nextHookSequence()
	b.hooks = append(b.hooks, hook)
	return nil
}

func (b *BaseProperty) checkMutable(operation string) error {
	if b.parent != nil && b.parent.finalized {
		return errors.NewIllegalStateError(b.parent.QualifiedName(), operation+" on "+b.Code(), "data object is finalized")
	}
	return nil
}

func (b *BaseProperty) parentName() string {
	if b.parent == nil {
		return "<unattached>"
	}
	return b.parent.QualifiedName()
}

// ControlAfterParentDefinition does nothing by default
func (b *BaseProperty) ControlAfterParentDefinition(ctx DefinitionContext) error { return nil }

// SetFinalSettings does nothing by default
func (b *BaseProperty) SetFinalSettings() error { return nil }

// GoType must be overridden; the base returns errors.ErrNotImplemented
func (b *BaseProperty) GoType() (string, error) {
	return "", errors.ErrNotImplemented
}

func (b *BaseProperty) ImportStatements() []string   { return nil }
func (b *BaseProperty) InitStatements() []string     { return nil }
func (b *BaseProperty) ExtractStatements() []string  { return nil }
func (b *BaseProperty) DeepCopyStatements() []string { return nil }
func (b *BaseProperty) LabelExtractor() string       { return "" }
func (b *BaseProperty) PayloadExtractor() string     { return "" }
func (b *BaseProperty) PayloadTypeName() string      { return "" }
func (b *BaseProperty) DependentCode() []string      { return nil }

func (b *BaseProperty) DataAccessBody(method DataAccessMethod) []string { return nil }

func (b *BaseProperty) HookStatements(hook *MethodAdditionalProcessing) []string { return nil }

// ControlProperty runs p.ControlAfterParentDefinition at most once.
// It reports whether the control step ran.
func ControlProperty(p Property, ctx DefinitionContext) (bool, error) {
	b := p.base()
	if b.controlled {
		return false, nil
	}
	b.controlled = true
	return true, p.ControlAfterParentDefinition(ctx)
}

// IsControlled reports whether ControlProperty already ran for p
func IsControlled(p Property) bool {
	return p.base().controlled
}

// SettleProperty runs p.SetFinalSettings at most once
func SettleProperty(p Property) error {
	b := p.base()
	if b.settled {
		return nil
	}
	if err := p.SetFinalSettings(); err != nil {
		return err
	}
	b.settled = true
	return nil
}

// IsSettled reports whether SetFinalSettings completed for p
func IsSettled(p Property) bool {
	return p.base().settled
}

func containsObject(objects []*DataObject, object *DataObject) bool {
	for _, o := range objects {
		if o == object {
			return true
		}
	}
	return false
}
