package rt

import (
	"context"
	"fmt"
	"reflect"
)

// Column names written by the property state types
const (
	ColumnID        = "ID"
	ColumnVersion   = "VERSION"
	ColumnLeftID    = "LFID"
	ColumnRightID   = "RGID"
	ColumnLeftTable = "LFTABLE"
)

// UniqueIdentified is the state of the UNIQUEIDENTIFIED property
type UniqueIdentified struct {
	Type TypeID
	ID   ObjectID
}

func NewUniqueIdentified(t TypeID) *UniqueIdentified {
	return &UniqueIdentified{Type: t}
}

func (p *UniqueIdentified) Copy() *UniqueIdentified {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Versioned is the state of the VERSIONED property
type Versioned struct {
	Version int64
}

func NewVersioned() *Versioned {
	return &Versioned{}
}

func (p *Versioned) Copy() *Versioned {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// LinkToMaster is the state of the LINKOBJECTTOMASTER property
type LinkToMaster struct {
	LeftTable  string
	RightTable string
	LeftID     ObjectID
	RightID    ObjectID
}

func NewLinkToMaster(left, right string) *LinkToMaster {
	return &LinkToMaster{LeftTable: left, RightTable: right}
}

func (p *LinkToMaster) Copy() *LinkToMaster {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// RightForLinkToMaster is the state of the RIGHTFORLINKTOMASTER property
// of the right object of a link
type RightForLinkToMaster struct {
	LinkTable string
}

func NewRightForLinkToMaster(link string) *RightForLinkToMaster {
	return &RightForLinkToMaster{LinkTable: link}
}

func (p *RightForLinkToMaster) Copy() *RightForLinkToMaster {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// CheckLinks verifies that the left object of every link pointing at id
// still exists
func (p *RightForLinkToMaster) CheckLinks(ctx context.Context, store Store, id ObjectID) error {
	rows, err := store.Find(ctx, p.LinkTable, ColumnRightID, id)
	if err != nil {
		return err
	}
	for _, row := range rows {
		left := row.ObjectID(ColumnLeftID)
		table := row.String(ColumnLeftTable)
		ok, err := store.Exists(ctx, table, left)
		if err != nil {
			return err
		}
		if !ok {
			return NewStoreError(KindConflict, p.LinkTable, row.ObjectID(ColumnID),
				fmt.Sprintf("left object %s/%s of the link is missing", table, left))
		}
	}
	return nil
}

// stateOf returns the first exported field of the struct pointed to by obj
// whose type is *T, or nil
func stateOf[T any](obj any) *T {
	v := reflect.ValueOf(obj)
	if v.Kind() != reflect.Pointer || v.IsNil() {
		return nil
	}
	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return nil
	}
	want := reflect.TypeOf((*T)(nil))
	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		if field.Type() != want || field.IsNil() || !field.CanInterface() {
			continue
		}
		return field.Interface().(*T)
	}
	return nil
}

// Columns returns the stored columns of the property state held by obj
func Columns(obj any) MapRow {
	row := MapRow{}
	if p := stateOf[UniqueIdentified](obj); p != nil {
		row[ColumnID] = p.ID
	}
	if p := stateOf[Versioned](obj); p != nil {
		row[ColumnVersion] = p.Version
	}
	if p := stateOf[LinkToMaster](obj); p != nil {
		row[ColumnLeftID] = p.LeftID
		row[ColumnRightID] = p.RightID
		row[ColumnLeftTable] = p.LeftTable
	}
	return row
}

// clone copies the struct pointed to by obj, duplicating its property state
func clone(obj any) any {
	v := reflect.ValueOf(obj)
	c := reflect.New(v.Elem().Type())
	c.Elem().Set(v.Elem())
	for i := 0; i < c.Elem().NumField(); i++ {
		field := c.Elem().Field(i)
		if !field.CanSet() || field.Kind() != reflect.Pointer || field.IsNil() {
			continue
		}
		switch state := field.Interface().(type) {
		case *UniqueIdentified:
			field.Set(reflect.ValueOf(state.Copy()))
		case *Versioned:
			field.Set(reflect.ValueOf(state.Copy()))
		case *LinkToMaster:
			field.Set(reflect.ValueOf(state.Copy()))
		case *RightForLinkToMaster:
			field.Set(reflect.ValueOf(state.Copy()))
		}
	}
	return c.Interface()
}
