package rt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The types below have the shape of generated data objects.

type orderStatus struct{}

func (orderStatus) Values() []ChoiceEntry {
	return []ChoiceEntry{{Code: "OPEN", Label: "Open"}, {Code: "CLOSED"}}
}

type order struct {
	Number           string
	Status           ChoiceValue[orderStatus]
	Uniqueidentified *UniqueIdentified
}

type product struct {
	Name                          string
	Uniqueidentified              *UniqueIdentified
	Versioned                     *Versioned
	RightforlinktomasterOrderline *RightForLinkToMaster
}

type orderLine struct {
	Uniqueidentified   *UniqueIdentified
	Linkobjecttomaster *LinkToMaster
}

func newProduct(name string) *product {
	return &product{
		Name:                          name,
		Uniqueidentified:              NewUniqueIdentified("product"),
		Versioned:                     NewVersioned(),
		RightforlinktomasterOrderline: NewRightForLinkToMaster("ORDERLINE"),
	}
}

func newOrderLine(left, right ObjectID) *orderLine {
	line := &orderLine{
		Uniqueidentified:   NewUniqueIdentified("orderline"),
		Linkobjecttomaster: NewLinkToMaster("ORDER", "PRODUCT"),
	}
	line.Linkobjecttomaster.LeftID = left
	line.Linkobjecttomaster.RightID = right
	return line
}

func newRedisStore(t *testing.T) *RedisStore {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, "")
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStores(t *testing.T) {
	stores := map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store { return NewMemoryStore() },
		"redis":  func(t *testing.T) Store { return newRedisStore(t) },
	}
	for name, create := range stores {
		t.Run(name, func(t *testing.T) {
			t.Run("lifecycle", func(t *testing.T) { testLifecycle(t, create(t)) })
			t.Run("links", func(t *testing.T) { testLinks(t, create(t)) })
		})
	}
}

func testLifecycle(t *testing.T, store Store) {
	ctx := context.Background()

	p := newProduct("Widget")
	require.NoError(t, store.Insert(ctx, "PRODUCT", p))
	id := p.Uniqueidentified.ID
	require.False(t, id.IsNil(), "insert assigns an id")
	assert.True(t, IsKind(store.Insert(ctx, "PRODUCT", p), KindConflict))

	var loaded product
	require.NoError(t, store.Load(ctx, "PRODUCT", id, &loaded))
	assert.Equal(t, "Widget", loaded.Name)
	assert.Equal(t, id, loaded.Uniqueidentified.ID)
	assert.Equal(t, TypeID("product"), loaded.Uniqueidentified.Type)
	assert.Equal(t, int64(0), loaded.Versioned.Version)

	p.Name = "Gadget"
	p.Versioned.Version = 7
	require.NoError(t, store.Update(ctx, "PRODUCT", id, p))
	require.NoError(t, store.Load(ctx, "PRODUCT", id, &loaded))
	assert.Equal(t, "Gadget", loaded.Name)
	assert.Equal(t, int64(0), loaded.Versioned.Version, "update keeps the stored version")

	v := &Versioned{Version: 0}
	require.NoError(t, store.UpdateVersion(ctx, "PRODUCT", id, v))
	assert.Equal(t, int64(1), v.Version)
	assert.True(t, IsVersionConflict(store.UpdateVersion(ctx, "PRODUCT", id, &Versioned{Version: 0})))
	require.NoError(t, store.Load(ctx, "PRODUCT", id, &loaded))
	assert.Equal(t, int64(1), loaded.Versioned.Version)

	assert.True(t, IsVersionConflict(store.DeleteVersion(ctx, "PRODUCT", id, 0)))
	require.NoError(t, store.DeleteVersion(ctx, "PRODUCT", id, 1))

	exists, err := store.Exists(ctx, "PRODUCT", id)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.True(t, IsNotFound(store.Load(ctx, "PRODUCT", id, &loaded)))
	assert.True(t, IsNotFound(store.Delete(ctx, "PRODUCT", id)))
	assert.True(t, IsNotFound(store.Update(ctx, "PRODUCT", id, p)))

	assert.True(t, IsKind(store.Insert(ctx, "PRODUCT", &struct{ Name string }{"x"}), KindInvalid))
}

func testLinks(t *testing.T, store Store) {
	ctx := context.Background()

	o := &order{Number: "A-1", Uniqueidentified: NewUniqueIdentified("order")}
	widget := newProduct("Widget")
	gadget := newProduct("Gadget")
	for _, obj := range []struct {
		table string
		value any
	}{{"ORDER", o}, {"PRODUCT", widget}, {"PRODUCT", gadget}} {
		require.NoError(t, store.Insert(ctx, obj.table, obj.value))
	}

	line := newOrderLine(o.Uniqueidentified.ID, widget.Uniqueidentified.ID)
	require.NoError(t, store.Insert(ctx, "ORDERLINE", line))

	n, err := store.Count(ctx, "ORDERLINE", ColumnRightID, widget.Uniqueidentified.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := store.Find(ctx, "ORDERLINE", ColumnRightID, widget.Uniqueidentified.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, o.Uniqueidentified.ID, rows[0].ObjectID(ColumnLeftID))
	assert.Equal(t, "ORDER", rows[0].String(ColumnLeftTable))
	assert.Equal(t, line.Uniqueidentified.ID, rows[0].ObjectID(ColumnID))

	require.NoError(t, widget.RightforlinktomasterOrderline.CheckLinks(ctx, store, widget.Uniqueidentified.ID))

	var loaded orderLine
	require.NoError(t, store.Load(ctx, "ORDERLINE", line.Uniqueidentified.ID, &loaded))
	assert.Equal(t, widget.Uniqueidentified.ID, loaded.Linkobjecttomaster.RightID)

	// moving the link to another product updates the index
	line.Linkobjecttomaster.RightID = gadget.Uniqueidentified.ID
	require.NoError(t, store.Update(ctx, "ORDERLINE", line.Uniqueidentified.ID, line))
	n, err = store.Count(ctx, "ORDERLINE", ColumnRightID, widget.Uniqueidentified.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	n, err = store.Count(ctx, "ORDERLINE", ColumnRightID, gadget.Uniqueidentified.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, store.Delete(ctx, "ORDER", o.Uniqueidentified.ID))
	err = gadget.RightforlinktomasterOrderline.CheckLinks(ctx, store, gadget.Uniqueidentified.ID)
	assert.True(t, IsKind(err, KindConflict))

	require.NoError(t, store.Delete(ctx, "ORDERLINE", line.Uniqueidentified.ID))
	n, err = store.Count(ctx, "ORDERLINE", ColumnRightID, gadget.Uniqueidentified.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := newProduct("Widget")
	require.NoError(t, store.Insert(ctx, "PRODUCT", p))

	p.Name = "changed"
	p.Versioned.Version = 3
	var loaded product
	require.NoError(t, store.Load(ctx, "PRODUCT", p.Uniqueidentified.ID, &loaded))
	assert.Equal(t, "Widget", loaded.Name)
	assert.Equal(t, int64(0), loaded.Versioned.Version)
	assert.Equal(t, 1, store.Len("PRODUCT"))

	var wrong order
	assert.True(t, IsKind(store.Load(ctx, "PRODUCT", p.Uniqueidentified.ID, &wrong), KindInvalid))
}

func TestPropertyStateCopy(t *testing.T) {
	p := newProduct("Widget")
	c := clone(p).(*product)

	assert.NotSame(t, p.Uniqueidentified, c.Uniqueidentified)
	assert.NotSame(t, p.Versioned, c.Versioned)
	assert.NotSame(t, p.RightforlinktomasterOrderline, c.RightforlinktomasterOrderline)
	assert.Equal(t, *p.RightforlinktomasterOrderline, *c.RightforlinktomasterOrderline)

	c.RightforlinktomasterOrderline.LinkTable = "OTHER"
	assert.Equal(t, "ORDERLINE", p.RightforlinktomasterOrderline.LinkTable)

	var none *RightForLinkToMaster
	assert.Nil(t, none.Copy())
}

func TestObjectID(t *testing.T) {
	id := NewObjectID()
	parsed, err := ParseObjectID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)
	assert.True(t, NilObjectID.IsNil())

	_, err = ParseObjectID("not-an-id")
	assert.Error(t, err)

	data, err := json.Marshal(struct{ ID ObjectID }{id})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ID":"`+id.String()+`"}`, string(data))

	var decoded struct{ ID ObjectID }
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id, decoded.ID)
}

func TestChoiceValue(t *testing.T) {
	tests := []struct {
		code    string
		valid   bool
		display string
	}{
		{"OPEN", true, "Open"},
		{"CLOSED", true, "CLOSED"},
		{"LOST", false, "LOST"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			v := ChoiceValue[orderStatus]{Code: tt.code}
			assert.Equal(t, tt.valid, v.Valid())
			assert.Equal(t, tt.display, v.DisplayValue())

			_, err := NewChoiceValue[orderStatus](tt.code)
			assert.Equal(t, tt.valid, err == nil)
		})
	}
}

func TestMapRow(t *testing.T) {
	id := NewObjectID()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	row := MapRow{
		"ID":      id.String(),
		"COUNT":   "42",
		"TYPED":   int64(7),
		"AMOUNT":  "12.50",
		"PLACED":  at.Format(time.RFC3339Nano),
		"NAME":    "widget",
		"VERSION": 3,
	}

	assert.Equal(t, id, row.ObjectID("ID"))
	assert.Equal(t, int64(42), row.Int("COUNT"))
	assert.Equal(t, int64(7), row.Int("TYPED"))
	assert.Equal(t, int64(3), row.Int("VERSION"))
	assert.Equal(t, Decimal("12.50"), row.Decimal("AMOUNT"))
	assert.True(t, at.Equal(row.Time("PLACED")))
	assert.Equal(t, "widget", row.String("NAME"))
	assert.Equal(t, "", row.String("MISSING"))
	assert.Equal(t, NilObjectID, row.ObjectID("MISSING"))
	assert.Equal(t, "7", row.Strings()["TYPED"])
}

func TestDecimal(t *testing.T) {
	d, err := ParseDecimal("12.50")
	require.NoError(t, err)
	assert.Equal(t, "25/2", d.Rat().String())

	_, err = ParseDecimal("twelve")
	assert.Error(t, err)
}

func TestColumns(t *testing.T) {
	line := newOrderLine(NewObjectID(), NewObjectID())
	line.Uniqueidentified.ID = NewObjectID()

	row := Columns(line)
	assert.Equal(t, line.Uniqueidentified.ID, row.ObjectID(ColumnID))
	assert.Equal(t, line.Linkobjecttomaster.LeftID, row.ObjectID(ColumnLeftID))
	assert.Equal(t, line.Linkobjecttomaster.RightID, row.ObjectID(ColumnRightID))
	assert.Equal(t, "ORDER", row.String(ColumnLeftTable))
	assert.NotContains(t, row, ColumnVersion)

	assert.Empty(t, Columns(struct{}{}))
}

func TestReport(t *testing.T) {
	report := Report[*order]{
		Name: "OrderByStatus",
		Columns: []Column[*order]{
			NewColumn(
				func(o *order) string { return o.Number },
				func(o *order) string { return o.Number },
				1,
				func(o *order) string { return o.Number },
			),
			NewColumn(
				func(o *order) string { return o.Status.DisplayValue() },
				func(o *order) ChoiceValue[orderStatus] { return o.Status },
				0,
				func(o *order) string { return o.Status.DisplayValue() },
			),
		},
	}

	orders := []*order{
		{Number: "A-1", Status: ChoiceValue[orderStatus]{Code: "OPEN"}},
		{Number: "A-2", Status: ChoiceValue[orderStatus]{Code: "OPEN"}},
		{Number: "A-3", Status: ChoiceValue[orderStatus]{Code: "CLOSED"}},
	}

	assert.Equal(t, []string{"Open", "A-1"}, report.Row(orders[0]))
	assert.Equal(t, ChoiceValue[orderStatus]{Code: "CLOSED"}, report.Columns[1].Payload(orders[2]))

	counts := report.Count(orders)
	assert.Equal(t, map[string]int{"A-1": 1, "A-2": 1, "A-3": 1}, counts[0])
	assert.Equal(t, map[string]int{"Open": 2, "CLOSED": 1}, counts[1])
}
