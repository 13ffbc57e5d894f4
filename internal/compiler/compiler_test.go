package compiler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toyz/metagen/internal/errors"
	"github.com/toyz/metagen/internal/generator"
	"github.com/toyz/metagen/internal/models"
	"github.com/toyz/metagen/internal/properties"
	"github.com/toyz/metagen/internal/report"
)

func newSales(t *testing.T) *models.Module {
	t.Helper()
	sales := models.NewModule("sales", "example.com/shop/gen/sales")
	order, err := sales.CreateDataObject("Order", "Order")
	require.NoError(t, err)
	product, err := sales.CreateDataObject("Product", "Product")
	require.NoError(t, err)
	line, err := sales.CreateDataObject("ORDERLINE", "Order line")
	require.NoError(t, err)

	for _, object := range []*models.DataObject{order, product} {
		require.NoError(t, object.AddProperty(properties.NewUniqueIdentified()))
		require.NoError(t, object.AddProperty(properties.NewVersioned()))
	}
	require.NoError(t, line.AddProperty(properties.NewUniqueIdentified()))
	require.NoError(t, line.AddProperty(properties.NewLinkObjectToMaster(order, product)))
	return sales
}

func TestCompile(t *testing.T) {
	sales := newSales(t)
	c := New(nil)
	require.NoError(t, c.AddModule(sales))

	stats, err := c.Compile()
	require.NoError(t, err)
	assert.Equal(t, Stats{Modules: 1, Objects: 3, Properties: 7, Bound: 2, Hooks: 2}, stats)
	assert.True(t, sales.IsFrozen())

	for _, object := range sales.DataObjects() {
		assert.True(t, object.IsFinalized(), object.QualifiedName())
	}
	product, _ := sales.DataObject("Product")
	ordered, err := product.OrderedProperties()
	require.NoError(t, err)
	codes := make([]string, len(ordered))
	for i, p := range ordered {
		codes[i] = p.Code()
	}
	assert.Equal(t, []string{"UNIQUEIDENTIFIED", "VERSIONED", "RIGHTFORLINKTOMASTER:ORDERLINE"}, codes)

	again, err := c.Compile()
	require.NoError(t, err)
	assert.Equal(t, stats, again)
	assert.True(t, errors.HasCode(c.AddModule(models.NewModule("billing", "example.com/shop/gen/billing")), errors.IllegalStateErrorCode))
}

func TestAddModule_Duplicate(t *testing.T) {
	c := New(nil)
	require.NoError(t, c.AddModule(models.NewModule("sales", "example.com/a/sales")))
	err := c.AddModule(models.NewModule("sales", "example.com/b/sales"))
	assert.True(t, errors.HasCode(err, errors.DuplicateObjectErrorCode))
}

func TestCompile_CollectsControlErrors(t *testing.T) {
	sales := models.NewModule("sales", "example.com/shop/gen/sales")
	for _, name := range []string{"Order", "Invoice"} {
		object, err := sales.CreateDataObject(name, "")
		require.NoError(t, err)
		require.NoError(t, object.AddProperty(properties.NewVersioned()))
	}

	c := New(nil)
	require.NoError(t, c.AddModule(sales))
	_, err := c.Compile()
	require.Error(t, err)

	var multi *errors.MultipleErrors
	require.True(t, errors.As(err, &multi))
	assert.Equal(t, 2, multi.Count())
	assert.True(t, multi.HasCode(errors.MissingDependencyErrorCode))
	assert.False(t, sales.IsFrozen())
}

func TestGenerate_MissingDependencyWritesNothing(t *testing.T) {
	sales := newSales(t)
	order, _ := sales.DataObject("Order")
	versioned, err := order.PropertyByName(properties.KindVersioned)
	require.NoError(t, err)
	require.NoError(t, versioned.AddDependencyOnCode("AUDITED"))

	dir := t.TempDir()
	c := New(nil)
	require.NoError(t, c.AddModule(sales))
	_, err = c.Generate(context.Background(), generator.Config{OutputDir: dir})
	require.Error(t, err)

	var missing *errors.MissingDependencyError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "sales/Order", missing.Object)
	assert.Equal(t, "VERSIONED", missing.Property)
	assert.Equal(t, "AUDITED", missing.Dependency)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate(t *testing.T) {
	sales := newSales(t)
	order, _ := sales.DataObject("Order")
	status := models.NewChoiceCategory("status", models.ChoiceValue{Code: "OPEN", Label: "Open"})
	require.NoError(t, sales.AddChoice(status))
	field := models.NewChoiceField("status", "Status", status)
	require.NoError(t, order.AddField(field))

	c := New(nil)
	require.NoError(t, c.AddModule(sales))

	node := report.NewNode("main", order)
	r := report.NewReport("order by status", "", node)
	column, err := report.NewChoiceColumnCriteria(node, field)
	require.NoError(t, err)
	require.NoError(t, r.AddColumn(column))
	require.NoError(t, c.AddReport(r))

	dir := t.TempDir()
	results, err := c.Generate(context.Background(), generator.Config{OutputDir: dir, Format: true, Parallel: 2})
	require.NoError(t, err)
	require.Len(t, results, 5)

	for _, name := range []string{"order_gen.go", "product_gen.go", "orderline_gen.go", "choices_gen.go", "order_by_status_report_gen.go"} {
		_, err := os.Stat(filepath.Join(dir, "sales", name))
		assert.NoError(t, err, name)
	}

	again, err := c.Generate(context.Background(), generator.Config{OutputDir: dir, Format: true})
	require.NoError(t, err)
	for _, result := range again {
		assert.False(t, result.Written, result.Path)
	}
}
