package properties

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/generics"
	"github.com/toyz/metagen/internal/models"
)

type testContext struct {
	*generics.Engine
}

func (testContext) Logger() *zap.Logger { return zap.NewNop() }

func newContext() testContext {
	return testContext{Engine: generics.NewEngine(nil)}
}

type salesModel struct {
	module    *models.Module
	order     *models.DataObject
	product   *models.DataObject
	orderLine *models.DataObject
	link      *LinkObjectToMaster
}

// newSalesModel builds Order and Product, both identified and versioned, and
// ORDERLINE linking an Order to a Product
func newSalesModel(t *testing.T) *salesModel {
	t.Helper()
	m := &salesModel{module: models.NewModule("sales", "example.com/shop/gen/sales")}

	var err error
	m.order, err = m.module.CreateDataObject("Order", "Order")
	require.NoError(t, err)
	m.product, err = m.module.CreateDataObject("Product", "Product")
	require.NoError(t, err)
	m.orderLine, err = m.module.CreateDataObject("ORDERLINE", "Order line")
	require.NoError(t, err)

	for _, object := range []*models.DataObject{m.order, m.product} {
		require.NoError(t, object.AddProperty(NewUniqueIdentified()))
		require.NoError(t, object.AddProperty(NewVersioned()))
	}
	require.NoError(t, m.orderLine.AddProperty(NewUniqueIdentified()))
	m.link = NewLinkObjectToMaster(m.order, m.product)
	require.NoError(t, m.orderLine.AddProperty(m.link))
	return m
}

// control runs the control step of every property until no new property appears
func control(t *testing.T, ctx models.DefinitionContext, objects ...*models.DataObject) error {
	t.Helper()
	for {
		ran := false
		for _, object := range objects {
			for _, p := range object.Properties() {
				did, err := models.ControlProperty(p, ctx)
				if err != nil {
					return err
				}
				ran = ran || did
			}
		}
		if !ran {
			return nil
		}
	}
}

func TestCatalog(t *testing.T) {
	module := models.NewModule("sales", "example.com/shop/gen/sales")
	_, err := module.CreateDataObject("Order", "")
	require.NoError(t, err)
	_, err = module.CreateDataObject("Product", "")
	require.NoError(t, err)

	lookup := func(ref string) (*models.DataObject, error) {
		if object, ok := module.DataObject(ref); ok {
			return object, nil
		}
		return nil, errors.NewUnknownPropertyError("sales", ref)
	}

	catalog := DefaultCatalog()
	assert.Equal(t, []string{KindUniqueIdentified, KindVersioned, KindLinkObjectToMaster, KindRightForLinkToMaster}, catalog.Kinds())

	tests := []struct {
		name     string
		kind     string
		args     Arguments
		wantCode string
		wantErr  errors.ErrorCode
	}{
		{name: "singleton kind", kind: KindVersioned, wantCode: "VERSIONED"},
		{
			name:     "link with objects",
			kind:     KindLinkObjectToMaster,
			args:     Arguments{Values: map[string]string{"left": "Order", "right": "Product", "priority": "20"}, Lookup: lookup},
			wantCode: "LINKOBJECTTOMASTER",
		},
		{
			name:    "link without right object",
			kind:    KindLinkObjectToMaster,
			args:    Arguments{Values: map[string]string{"left": "Order"}, Lookup: lookup},
			wantErr: errors.UnknownPropertyErrorCode,
		},
		{
			name:    "link with bad priority",
			kind:    KindLinkObjectToMaster,
			args:    Arguments{Values: map[string]string{"left": "Order", "right": "Product", "priority": "high"}, Lookup: lookup},
			wantErr: errors.ArgumentMismatchErrorCode,
		},
		{
			name:    "unresolved object",
			kind:    KindRightForLinkToMaster,
			args:    Arguments{Values: map[string]string{"link": "Invoice", "left": "Order"}, Lookup: lookup},
			wantErr: errors.UnknownPropertyErrorCode,
		},
		{name: "unknown kind", kind: "AUDITED", wantErr: errors.UnknownPropertyErrorCode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := catalog.Create(tt.kind, tt.args)
			if tt.wantErr != errors.UnknownErrorCode {
				require.Error(t, err)
				assert.Equal(t, tt.wantErr, errors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCode, p.Code())
		})
	}

	assert.Error(t, catalog.Register(KindVersioned, nil), "kinds are registered once")
}

func TestVersioned_RequiresUniqueIdentified(t *testing.T) {
	module := models.NewModule("sales", "example.com/shop/gen/sales")
	order, err := module.CreateDataObject("Order", "")
	require.NoError(t, err)
	require.NoError(t, order.AddProperty(NewVersioned()))

	err = control(t, newContext(), order)
	require.Error(t, err)
	var missing *errors.MissingDependencyError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "sales/Order", missing.Object)
	assert.Equal(t, KindUniqueIdentified, missing.Dependency)
}

func TestLinkObjectToMaster_InstallsRightProperty(t *testing.T) {
	m := newSalesModel(t)
	m.link.SetRightTablePriority(42)
	ctx := newContext()

	require.NoError(t, control(t, ctx, m.order, m.product, m.orderLine))

	right := m.link.RightProperty()
	require.NotNil(t, right)
	assert.Same(t, m.product, right.Parent())
	assert.Equal(t, "RIGHTFORLINKTOMASTER:ORDERLINE", right.Code())
	assert.True(t, m.product.HasProperty(right.Code()))
	assert.Equal(t, 42, right.DisplayPriority())

	bindings := ctx.Bindings(right)
	require.Len(t, bindings, 2)
	assert.Equal(t, "LINKOBJECTTOMASTER=sales/ORDERLINE.LINKOBJECTTOMASTER", bindings[0].String())
	assert.Equal(t, "LEFTOBJECTFORLINKTOMASTER=sales/Order.UNIQUEIDENTIFIED", bindings[1].String())

	left, ok := m.link.GenericsFor(RoleLeftObject)
	require.True(t, ok)
	assert.Same(t, m.order, left.Object)
	assert.ElementsMatch(t, []*models.DataObject{m.order, m.product}, m.link.ExternalObjectDependence())
}

func TestRightForLinkToMaster_HooksVersioned(t *testing.T) {
	m := newSalesModel(t)
	require.NoError(t, control(t, newContext(), m.order, m.product, m.orderLine))

	right := m.link.RightProperty()
	versioned, err := m.product.PropertyByName(KindVersioned)
	require.NoError(t, err)

	hooks := right.AdditionalProcessing()
	require.Len(t, hooks, 2)
	assert.Equal(t, models.MethodDelete, hooks[0].Method.Kind)
	assert.Equal(t, models.MethodUpdate, hooks[1].Method.Kind)
	for _, hook := range hooks {
		assert.Equal(t, models.Before, hook.Phase)
		assert.Same(t, versioned, hook.Method.Owner)
		assert.Same(t, right, hook.Declaring())
	}
	assert.Equal(t, "beforeDeleteVersionedRightforlinktomasterOrderline", hooks[0].FuncName())
	assert.Less(t, hooks[0].Sequence(), hooks[1].Sequence())

	deleteHook := right.HookStatements(hooks[0])
	require.NotEmpty(t, deleteHook)
	assert.Equal(t, `n, err := store.Count(ctx, "ORDERLINE", "RGID", o.Uniqueidentified.ID)`, deleteHook[0])

	assert.Equal(t, []string{"c.RightforlinktomasterOrderline = o.RightforlinktomasterOrderline.Copy()"},
		right.DeepCopyStatements())

	widgets := right.Widgets()
	require.Len(t, widgets, 1)
	assert.Equal(t, "RIGHTFORLINKTABLE", widgets[0].Name())
	assert.Same(t, right, widgets[0].Property())
}

func TestVersioned_TakesOverIdentityWrites(t *testing.T) {
	m := newSalesModel(t)
	require.NoError(t, control(t, newContext(), m.order, m.product, m.orderLine))

	kinds := func(p models.Property) []models.MethodKind {
		var result []models.MethodKind
		for _, method := range p.DataAccessMethods() {
			result = append(result, method.Kind)
		}
		return result
	}

	unique, err := m.product.PropertyByName(KindUniqueIdentified)
	require.NoError(t, err)
	versioned, err := m.product.PropertyByName(KindVersioned)
	require.NoError(t, err)
	assert.Equal(t, []models.MethodKind{models.MethodCreate}, kinds(unique))
	assert.Equal(t, []models.MethodKind{models.MethodUpdate, models.MethodDelete}, kinds(versioned))

	lineUnique, err := m.orderLine.PropertyByName(KindUniqueIdentified)
	require.NoError(t, err)
	assert.Equal(t, []models.MethodKind{models.MethodCreate, models.MethodUpdate, models.MethodDelete}, kinds(lineUnique))

	update, ok := methodOf(versioned, models.MethodUpdate)
	require.True(t, ok)
	assert.Equal(t, []string{
		`if err := store.UpdateVersion(ctx, "PRODUCT", o.Uniqueidentified.ID, o.Versioned); err != nil {`,
		"return err",
		"}",
		`if err := store.Update(ctx, "PRODUCT", o.Uniqueidentified.ID, o); err != nil {`,
		"return err",
		"}",
	}, versioned.DataAccessBody(update))
}

func TestRightForLinkToMaster_RequiresVersioned(t *testing.T) {
	module := models.NewModule("sales", "example.com/shop/gen/sales")
	order, err := module.CreateDataObject("Order", "")
	require.NoError(t, err)
	product, err := module.CreateDataObject("Product", "")
	require.NoError(t, err)
	line, err := module.CreateDataObject("ORDERLINE", "")
	require.NoError(t, err)
	for _, object := range []*models.DataObject{order, product, line} {
		require.NoError(t, object.AddProperty(NewUniqueIdentified()))
	}
	require.NoError(t, line.AddProperty(NewLinkObjectToMaster(order, product)))

	err = control(t, newContext(), order, product, line)
	require.Error(t, err)
	var missing *errors.MissingDependencyError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "sales/Product", missing.Object)
	assert.Equal(t, KindVersioned, missing.Dependency)
}

func TestRightForLinkToMaster_Actions(t *testing.T) {
	m := newSalesModel(t)
	require.NoError(t, control(t, newContext(), m.order, m.product, m.orderLine))
	right := m.link.RightProperty()

	other := models.NewModule("billing", "example.com/shop/gen/billing")
	invoice, err := other.CreateDataObject("Invoice", "")
	require.NoError(t, err)

	tests := []struct {
		name    string
		add     func(*models.Action) error
		action  *models.Action
		wantErr string
	}{
		{
			name:   "object id of the right object",
			add:    right.AddActionOnObjectID,
			action: models.NewAction("SHOWPRODUCT", models.NewObjectIDArgument("id", m.product)),
		},
		{
			name:   "selected link id",
			add:    right.AddActionOnSelectedLinkID,
			action: models.NewAction("DELETEORDERLINE", models.NewObjectIDArgument("id", m.orderLine)),
		},
		{
			name:   "selected left object id",
			add:    right.AddActionOnSelectedLeftObjectID,
			action: models.NewAction("SHOWORDER", models.NewObjectIDArgument("id", m.order)),
		},
		{
			name: "two arguments",
			add:  right.AddActionOnObjectID,
			action: models.NewAction("RENAMEPRODUCT",
				models.NewObjectIDArgument("id", m.product), models.NewStringArgument("name", 64)),
			wantErr: "action 'RENAMEPRODUCT' on property 'sales/Product.RIGHTFORLINKTOMASTER:ORDERLINE' of data object 'sales/Product': " +
				"expected exactly 1 input argument, action has 2",
		},
		{
			name:    "no argument",
			add:     right.AddActionOnSelectedLinkID,
			action:  models.NewAction("LISTLINKS"),
			wantErr: "expected exactly 1 input argument, action has 0",
		},
		{
			name:    "not an object id",
			add:     right.AddActionOnObjectID,
			action:  models.NewAction("FINDPRODUCT", models.NewStringArgument("name", 64)),
			wantErr: "it is actually string",
		},
		{
			name:    "object id of another object",
			add:     right.AddActionOnSelectedLeftObjectID,
			action:  models.NewAction("SHOWINVOICE", models.NewObjectIDArgument("id", invoice)),
			wantErr: "action id type = billing/Invoice, expected type = sales/Order",
		},
		{
			name:    "object id without data object",
			add:     right.AddActionOnObjectID,
			action:  models.NewAction("SHOWNOTHING", models.NewObjectIDArgument("id", nil)),
			wantErr: "object id argument 'id' has no data object, expected type = sales/Product",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.add(tt.action)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, errors.ArgumentMismatchErrorCode, errors.CodeOf(err))
			assert.Contains(t, err.Error(), tt.wantErr)

			var mismatch *errors.ArgumentMismatchError
			require.True(t, errors.As(err, &mismatch))
			assert.Equal(t, "sales/Product", mismatch.Object)
			assert.Equal(t, right.QualifiedCode(), mismatch.Property)
			assert.Equal(t, tt.action.Name, mismatch.Context()["action"])
			assert.Equal(t, "sales/Product", mismatch.Context()["object"])
		})
	}

	assert.Len(t, right.ActionsOnObjectID(), 1)
	assert.Len(t, right.ActionsOnSelectedLinkID(), 1)
	assert.Len(t, right.ActionsOnSelectedLeftObjectID(), 1)
}

func TestEmission(t *testing.T) {
	m := newSalesModel(t)
	require.NoError(t, control(t, newContext(), m.order, m.product, m.orderLine))

	unique, err := m.order.PropertyByName(KindUniqueIdentified)
	require.NoError(t, err)
	assert.Equal(t, []string{"o.Uniqueidentified = rt.NewUniqueIdentified(OrderTypeID)"}, unique.InitStatements())
	assert.Equal(t, "o.Uniqueidentified.ID", unique.PayloadExtractor())

	method, ok := methodOf(unique, models.MethodCreate)
	require.True(t, ok)
	assert.Equal(t, "InsertUniqueidentified", method.FuncName())
	assert.Equal(t, `if err := store.Insert(ctx, "ORDER", o); err != nil {`, unique.DataAccessBody(method)[0])

	goType, err := m.link.GoType()
	require.NoError(t, err)
	assert.Equal(t, "*rt.LinkToMaster", goType)
	assert.Contains(t, m.link.DependentCode(), "func (o *Orderline) SetOrderAndProduct(left, right rt.ObjectID) {")
}

func TestImports_CrossModule(t *testing.T) {
	catalogModule := models.NewModule("catalog", "example.com/shop/gen/catalog")
	product, err := catalogModule.CreateDataObject("Product", "")
	require.NoError(t, err)
	sales := models.NewModule("sales", "example.com/shop/gen/sales")
	order, err := sales.CreateDataObject("Order", "")
	require.NoError(t, err)

	assert.Equal(t, []string{`catalog "example.com/shop/gen/catalog"`}, moduleImports(sales, order, product, product))
	assert.Equal(t, "catalog.Product", typeRef(sales, product))
	assert.Equal(t, "Order", typeRef(sales, order))
}
