package rt

import (
	"context"
	"sort"
)

// LinkTable describes the table of links shown on the page of a right object
type LinkTable struct {
	Widget    string
	Title     string
	LinkTable string
	LeftTable string
	NewLink   func() any
	NewLeft   func() any

	// Qualified names of the actions bound to the right object id, to
	// selected link ids and to the left object ids of selected links
	ObjectActions []string
	LinkActions   []string
	LeftActions   []string

	Priority int
}

// Links returns the columns of the links pointing at right
func (t LinkTable) Links(ctx context.Context, store Store, right ObjectID) ([]MapRow, error) {
	return store.Find(ctx, t.LinkTable, ColumnRightID, right)
}

// Column is one column of a report on objects of type T
type Column[T any] struct {
	Label   func(T) string
	Payload func(T) any
	Index   int
	Value   func(T) string
}

// NewColumn creates a report column with a typed payload extractor
func NewColumn[T any, P any](label func(T) string, payload func(T) P, index int, value func(T) string) Column[T] {
	return Column[T]{
		Label:   label,
		Payload: func(o T) any { return payload(o) },
		Index:   index,
		Value:   value,
	}
}

// Report groups objects of type T by column values
type Report[T any] struct {
	Name    string
	Label   string
	Columns []Column[T]
}

// Row returns the column values of o, ordered by column index
func (r Report[T]) Row(o T) []string {
	columns := append([]Column[T](nil), r.Columns...)
	sort.SliceStable(columns, func(i, j int) bool { return columns[i].Index < columns[j].Index })
	values := make([]string, len(columns))
	for i, column := range columns {
		values[i] = column.Value(o)
	}
	return values
}

// Count counts objects per distinct column value, for each column
func (r Report[T]) Count(objects []T) []map[string]int {
	counts := make([]map[string]int, len(r.Columns))
	for i, column := range r.Columns {
		counts[i] = make(map[string]int)
		for _, o := range objects {
			counts[i][column.Value(o)]++
		}
	}
	return counts
}
