package rt

import (
	"context"
)

// Store persists generated data objects. Objects are pointers to generated
// structs; their property state fields carry the identity, version and link
// columns.
//
// Update never changes the stored version, UpdateVersion does.
type Store interface {
	// Insert stores obj, assigning an identifier when it has none
	Insert(ctx context.Context, table string, obj any) error
	Update(ctx context.Context, table string, id ObjectID, obj any) error
	Delete(ctx context.Context, table string, id ObjectID) error

	// UpdateVersion checks that v is the stored version and increments both
	UpdateVersion(ctx context.Context, table string, id ObjectID, v *Versioned) error
	// DeleteVersion deletes the object if version is the stored version
	DeleteVersion(ctx context.Context, table string, id ObjectID, version int64) error

	Load(ctx context.Context, table string, id ObjectID, into any) error
	Exists(ctx context.Context, table string, id ObjectID) (bool, error)

	// Count returns how many objects of table hold id in column
	Count(ctx context.Context, table, column string, id ObjectID) (int, error)
	// Find returns the columns of the objects of table holding id in column
	Find(ctx context.Context, table, column string, id ObjectID) ([]MapRow, error)
}

// indexedColumns are the reference columns stores can search
var indexedColumns = []string{ColumnLeftID, ColumnRightID}

// identify returns the identity of obj, assigning one if assign is set and it has none
func identify(table string, obj any, assign bool) (*UniqueIdentified, error) {
	identity := stateOf[UniqueIdentified](obj)
	if identity == nil {
		return nil, ErrInvalid(table, "object has no UNIQUEIDENTIFIED state")
	}
	if identity.ID.IsNil() && assign {
		identity.ID = NewObjectID()
	}
	return identity, nil
}
