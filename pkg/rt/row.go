package rt

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Row gives typed access to the columns of one stored object
type Row interface {
	String(column string) string
	Int(column string) int64
	Decimal(column string) Decimal
	Time(column string) time.Time
	ObjectID(column string) ObjectID
}

// MapRow is a Row over a column map. Values may be typed or in their text form;
// missing or unconvertible columns read as zero values.
type MapRow map[string]any

func (r MapRow) String(column string) string {
	switch v := r[column].(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func (r MapRow) Int(column string) int64 {
	switch v := r[column].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

func (r MapRow) Decimal(column string) Decimal {
	return Decimal(r.String(column))
}

func (r MapRow) Time(column string) time.Time {
	switch v := r[column].(type) {
	case time.Time:
		return v
	case string:
		t, _ := time.Parse(time.RFC3339Nano, v)
		return t
	default:
		return time.Time{}
	}
}

func (r MapRow) ObjectID(column string) ObjectID {
	switch v := r[column].(type) {
	case ObjectID:
		return v
	case uuid.UUID:
		return ObjectID(v)
	case string:
		id, _ := ParseObjectID(v)
		return id
	default:
		return NilObjectID
	}
}

// Strings returns the row in text form
func (r MapRow) Strings() map[string]string {
	out := make(map[string]string, len(r))
	for column := range r {
		out[column] = r.String(column)
	}
	return out
}
