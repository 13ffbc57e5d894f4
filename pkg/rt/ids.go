// Package rt is the runtime used by code generated by metagen: identifiers,
// property state, choice values, report descriptions and the stores that
// persist generated data objects.
package rt

import (
	"fmt"

	"github.com/google/uuid"
)

// TypeID identifies a generated data object type
type TypeID string

// ObjectID identifies one stored data object
type ObjectID uuid.UUID

// NilObjectID is the zero identifier
var NilObjectID ObjectID

// NewObjectID returns a random identifier
func NewObjectID() ObjectID {
	return ObjectID(uuid.New())
}

// ParseObjectID parses the canonical text form of an identifier
func ParseObjectID(s string) (ObjectID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NilObjectID, fmt.Errorf("invalid object id %q: %w", s, err)
	}
	return ObjectID(id), nil
}

func (id ObjectID) String() string {
	return uuid.UUID(id).String()
}

// IsNil reports whether id was never assigned
func (id ObjectID) IsNil() bool {
	return id == NilObjectID
}

func (id ObjectID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *ObjectID) UnmarshalText(text []byte) error {
	parsed, err := ParseObjectID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
