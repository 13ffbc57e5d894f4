package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/metagen/internal/errors"
)

type stubProperty struct {
	*BaseProperty
	controls int
	settles  int
}

func newStub(kind, name string, methods ...MethodKind) *stubProperty {
	p := &stubProperty{BaseProperty: NewBaseProperty(kind, name)}
	p.DeclareDataAccessMethods(methods...)
	return p
}

func (p *stubProperty) ControlAfterParentDefinition(ctx DefinitionContext) error {
	p.controls++
	return nil
}

func (p *stubProperty) SetFinalSettings() error {
	p.settles++
	return nil
}

func newOrder(t *testing.T) (*Module, *DataObject) {
	t.Helper()
	module := NewModule("sales", "example.com/shop/gen/sales")
	order, err := module.CreateDataObject("Order", "Customer order")
	require.NoError(t, err)
	return module, order
}

func TestModule_CreateDataObject(t *testing.T) {
	module, order := newOrder(t)

	assert.Equal(t, "sales/Order", order.QualifiedName())
	assert.Equal(t, "sales", module.PackageName())
	assert.Same(t, module, order.Module())

	_, err := module.CreateDataObject("Order", "")
	assert.True(t, errors.HasCode(err, errors.DuplicateObjectErrorCode))

	module.Freeze()
	_, err = module.CreateDataObject("Invoice", "")
	assert.True(t, errors.HasCode(err, errors.IllegalStateErrorCode))
}

func TestModule_ChoicesAndActions(t *testing.T) {
	module, _ := newOrder(t)

	status := NewChoiceCategory("order status", ChoiceValue{Code: "OPEN", Label: "Open"})
	require.NoError(t, module.AddChoice(status))
	assert.Same(t, module, status.Module())
	assert.Equal(t, "OrderStatusChoiceDefinition", status.DefinitionClassName())
	assert.Error(t, module.AddChoice(NewChoiceCategory("order status")))

	action := NewAction("CLOSEORDER")
	require.NoError(t, module.AddAction(action))
	assert.Equal(t, "sales/CLOSEORDER", action.QualifiedName())
	assert.Len(t, module.Actions(), 1)
}

func TestDataObject_PropertyRegistry(t *testing.T) {
	_, order := newOrder(t)

	unique := newStub("UNIQUEIDENTIFIED", "")
	versioned := newStub("VERSIONED", "")
	named := newStub("RIGHTFORLINKTOMASTER", "ORDERLINE")

	require.NoError(t, order.AddProperty(unique))
	require.NoError(t, order.AddProperty(versioned))
	require.NoError(t, order.AddProperty(named))

	assert.Equal(t, "RIGHTFORLINKTOMASTER:ORDERLINE", named.Code())
	assert.Equal(t, "sales/Order.VERSIONED", versioned.QualifiedCode())
	assert.Same(t, order, unique.Parent())

	p, err := order.PropertyByName("VERSIONED")
	require.NoError(t, err)
	assert.Same(t, versioned, p)

	codes := []string{}
	for _, p := range order.Properties() {
		codes = append(codes, p.Code())
	}
	assert.Equal(t, []string{"UNIQUEIDENTIFIED", "VERSIONED", "RIGHTFORLINKTOMASTER:ORDERLINE"}, codes)

	err = order.AddProperty(newStub("VERSIONED", ""))
	var duplicate *errors.DuplicatePropertyError
	require.True(t, errors.As(err, &duplicate))
	assert.Equal(t, "VERSIONED", duplicate.Property)

	_, err = order.PropertyByName("MISSING")
	var unknown *errors.UnknownPropertyError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "sales/Order", unknown.Object)
}

func TestDataObject_PropertyOwnedByOneObject(t *testing.T) {
	module, order := newOrder(t)
	invoice, err := module.CreateDataObject("Invoice", "")
	require.NoError(t, err)

	p := newStub("VERSIONED", "")
	require.NoError(t, order.AddProperty(p))

	err = invoice.AddProperty(p)
	assert.True(t, errors.HasCode(err, errors.IllegalStateErrorCode))
}

func TestDataObject_FinalizeFreezes(t *testing.T) {
	_, order := newOrder(t)
	unique := newStub("UNIQUEIDENTIFIED", "", MethodCreate)
	versioned := newStub("VERSIONED", "")
	require.NoError(t, order.AddProperty(unique))
	require.NoError(t, order.AddProperty(versioned))

	_, err := order.OrderedProperties()
	assert.True(t, errors.HasCode(err, errors.IllegalStateErrorCode))

	assert.Error(t, order.Finalize([]Property{unique}), "order must cover every property")
	require.NoError(t, order.Finalize([]Property{unique, versioned}))
	assert.True(t, order.IsFinalized())

	ordered, err := order.OrderedProperties()
	require.NoError(t, err)
	assert.Equal(t, []Property{unique, versioned}, ordered)

	tests := []struct {
		name string
		call func() error
	}{
		{"add property", func() error { return order.AddProperty(newStub("LINKOBJECTTOMASTER", "")) }},
		{"add field", func() error { return order.AddField(NewField("Number", "", FieldString)) }},
		{"add dependency", func() error { return versioned.AddDependencyOnCode("UNIQUEIDENTIFIED") }},
		{"add dependent property", func() error { return versioned.AddDependentProperty(unique) }},
		{"add generics", func() error {
			return versioned.AddPropertyGenerics(NewPropertyGenerics("ROLE", order, unique))
		}},
		{"add hook", func() error {
			method, _ := unique.DataAccessMethod(MethodCreate)
			return versioned.AddMethodAdditionalProcessing(NewMethodAdditionalProcessing(Before, method))
		}},
		{"finalize twice", func() error { return order.Finalize([]Property{unique, versioned}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			assert.True(t, errors.HasCode(err, errors.IllegalStateErrorCode), "got %v", err)
		})
	}
}

func TestBaseProperty_Dependencies(t *testing.T) {
	module, order := newOrder(t)
	line, err := module.CreateDataObject("OrderLine", "")
	require.NoError(t, err)

	unique := newStub("UNIQUEIDENTIFIED", "")
	versioned := newStub("VERSIONED", "")
	lineUnique := newStub("UNIQUEIDENTIFIED", "")
	require.NoError(t, order.AddProperty(unique))
	require.NoError(t, order.AddProperty(versioned))
	require.NoError(t, line.AddProperty(lineUnique))

	require.NoError(t, versioned.AddDependentProperty(unique))
	require.NoError(t, versioned.AddDependentProperty(unique))
	require.NoError(t, versioned.AddDependentProperty(lineUnique))
	require.NoError(t, versioned.AddDependencyOnCode("AUDITED"))

	assert.Equal(t, []Dependency{
		{Object: order, Code: "UNIQUEIDENTIFIED"},
		{Object: line, Code: "UNIQUEIDENTIFIED"},
		{Code: "AUDITED"},
	}, versioned.Dependencies())

	err = versioned.AddDependentProperty(newStub("LOOSE", ""))
	assert.True(t, errors.HasCode(err, errors.MissingDependencyErrorCode))
}

func TestBaseProperty_MethodAdditionalProcessing(t *testing.T) {
	_, order := newOrder(t)
	versioned := newStub("VERSIONED", "", MethodUpdate, MethodDelete)
	right := newStub("RIGHTFORLINKTOMASTER", "ORDERLINE")

	detached := newStub("VERSIONED", "", MethodDelete)
	_, ok := detached.DataAccessMethod(MethodDelete)
	assert.False(t, ok, "methods are only available once attached")

	require.NoError(t, order.AddProperty(versioned))
	require.NoError(t, order.AddProperty(right))

	deleteMethod, ok := versioned.DataAccessMethod(MethodDelete)
	require.True(t, ok)
	assert.Equal(t, "DeleteVersioned", deleteMethod.FuncName())
	assert.Equal(t, "sales/Order.VERSIONED#DELETE", deleteMethod.String())

	first := NewMethodAdditionalProcessing(Before, deleteMethod)
	second := NewMethodAdditionalProcessing(Before, deleteMethod)
	require.NoError(t, right.AddMethodAdditionalProcessing(first))
	require.NoError(t, right.AddMethodAdditionalProcessing(second))

	assert.Same(t, right, first.Declaring())
	assert.Less(t, first.Sequence(), second.Sequence())
	assert.Equal(t, "beforeDeleteVersionedRightforlinktomasterOrderline", first.FuncName())
	assert.Len(t, right.AdditionalProcessing(), 2)

	tests := []struct {
		name   string
		method DataAccessMethod
	}{
		{"unattached target", DataAccessMethod{Kind: MethodDelete, Owner: detached}},
		{"method not owned", DataAccessMethod{Kind: MethodCreate, Owner: versioned}},
		{"no target", DataAccessMethod{Kind: MethodDelete}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := right.AddMethodAdditionalProcessing(NewMethodAdditionalProcessing(After, tt.method))
			assert.True(t, errors.HasCode(err, errors.UnresolvedHookTargetErrorCode), "got %v", err)
		})
	}
	assert.Len(t, right.AdditionalProcessing(), 2)
}

func TestGenericParameter_Accepts(t *testing.T) {
	_, order := newOrder(t)
	unique := newStub("UNIQUEIDENTIFIED", "")
	unique.DeclareCapabilities(CapabilityIdentity)
	versioned := newStub("VERSIONED", "")
	require.NoError(t, order.AddProperty(unique))
	require.NoError(t, order.AddProperty(versioned))

	param := GenericParameter{Role: "LEFT", PropertyKind: "UNIQUEIDENTIFIED", Capabilities: []Capability{CapabilityIdentity}}
	assert.Equal(t, "property of kind UNIQUEIDENTIFIED and identity-bearing", param.Expectation())

	ok, _ := param.Accepts(unique)
	assert.True(t, ok)

	ok, actual := param.Accepts(versioned)
	assert.False(t, ok)
	assert.Equal(t, "property sales/Order.VERSIONED of kind VERSIONED", actual)

	capabilityOnly := GenericParameter{Role: "LEFT", Capabilities: []Capability{CapabilityIdentity}}
	ok, actual = capabilityOnly.Accepts(versioned)
	assert.False(t, ok)
	assert.Contains(t, actual, "without identity-bearing")
}

func TestBaseProperty_GenericsBindings(t *testing.T) {
	_, order := newOrder(t)
	unique := newStub("UNIQUEIDENTIFIED", "")
	require.NoError(t, order.AddProperty(unique))
	p := newStub("RIGHTFORLINKTOMASTER", "X")

	binding := NewPropertyGenerics("LEFT", order, unique)
	require.NoError(t, p.AddPropertyGenerics(binding))
	assert.Equal(t, "LEFT=sales/Order.UNIQUEIDENTIFIED", binding.String())

	got, ok := p.GenericsFor("LEFT")
	require.True(t, ok)
	assert.Same(t, binding, got)

	err := p.AddPropertyGenerics(NewPropertyGenerics("LEFT", order, unique))
	assert.True(t, errors.HasCode(err, errors.IncompatibleGenericsErrorCode))

	err = p.AddPropertyGenerics(NewPropertyGenerics("RIGHT", order, nil))
	assert.True(t, errors.HasCode(err, errors.IncompatibleGenericsErrorCode))
}

func TestControlAndSettleRunOnce(t *testing.T) {
	_, order := newOrder(t)
	p := newStub("VERSIONED", "")
	require.NoError(t, order.AddProperty(p))

	ran, err := ControlProperty(p, nil)
	require.NoError(t, err)
	assert.True(t, ran)
	ran, err = ControlProperty(p, nil)
	require.NoError(t, err)
	assert.False(t, ran)
	assert.Equal(t, 1, p.controls)
	assert.True(t, IsControlled(p))

	require.NoError(t, SettleProperty(p))
	require.NoError(t, SettleProperty(p))
	assert.Equal(t, 1, p.settles)
	assert.True(t, IsSettled(p))
}

func TestBaseProperty_GoTypeNotImplemented(t *testing.T) {
	_, err := newStub("ABSTRACT", "").GoType()
	assert.ErrorIs(t, err, errors.ErrNotImplemented)
}

func TestField_Generation(t *testing.T) {
	status := NewChoiceCategory("Status")
	tests := []struct {
		field   *Field
		goType  string
		extract string
	}{
		{NewField("order number", "", FieldString), "string", `row.String("ORDER_NUMBER")`},
		{NewField("quantity", "", FieldInteger), "int64", `row.Int("QUANTITY")`},
		{NewField("due", "", FieldDate), "time.Time", `row.Time("DUE")`},
		{NewChoiceField("status", "", status), "rt.ChoiceValue[StatusChoiceDefinition]",
			`rt.ChoiceValue[StatusChoiceDefinition]{Code: row.String("STATUS")}`},
	}
	for _, tt := range tests {
		t.Run(tt.field.Name, func(t *testing.T) {
			assert.Equal(t, tt.goType, tt.field.GoType())
			assert.Equal(t, tt.extract, tt.field.ExtractExpression("row"))
		})
	}
}

func TestField_ChoiceFromAnotherModule(t *testing.T) {
	_, order := newOrder(t)
	common := NewModule("common", "example.com/shop/gen/common")
	status := NewChoiceCategory("order status")
	require.NoError(t, common.AddChoice(status))

	field := NewChoiceField("status", "", status)
	require.NoError(t, order.AddField(field))

	assert.Equal(t, "rt.ChoiceValue[common.OrderStatusChoiceDefinition]", field.GoType())
	assert.Equal(t, []string{`common "example.com/shop/gen/common"`}, field.ImportStatements())
	assert.Nil(t, NewField("name", "", FieldString).ImportStatements())
}
