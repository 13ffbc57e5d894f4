package rt

import (
	"errors"
	"fmt"
)

// ErrorKind classifies store errors
type ErrorKind int

const (
	KindNotFound ErrorKind = iota
	KindConflict
	KindVersionConflict
	KindInvalid
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindVersionConflict:
		return "version conflict"
	default:
		return "invalid"
	}
}

// StoreError is returned by stores for a failed operation on one object
type StoreError struct {
	Kind    ErrorKind `json:"kind"`
	Table   string    `json:"table"`
	ID      ObjectID  `json:"id"`
	Message string    `json:"message"`
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("%s %s/%s: %s", e.Kind, e.Table, e.ID, e.Message)
}

// NewStoreError creates a store error
func NewStoreError(kind ErrorKind, table string, id ObjectID, message string) *StoreError {
	return &StoreError{Kind: kind, Table: table, ID: id, Message: message}
}

// ErrNotFound reports a missing object
func ErrNotFound(table string, id ObjectID) *StoreError {
	return NewStoreError(KindNotFound, table, id, "object does not exist")
}

// ErrConflict reports an object that already exists or changed concurrently
func ErrConflict(table string, id ObjectID, message string) *StoreError {
	return NewStoreError(KindConflict, table, id, message)
}

// ErrVersionConflict reports a stale version
func ErrVersionConflict(table string, id ObjectID, expected, actual int64) *StoreError {
	return NewStoreError(KindVersionConflict, table, id,
		fmt.Sprintf("version %d is stale, stored version is %d", expected, actual))
}

// ErrInvalid reports an object the store cannot handle
func ErrInvalid(table string, message string) *StoreError {
	return NewStoreError(KindInvalid, table, NilObjectID, message)
}

// IsKind reports whether err is a store error of kind
func IsKind(err error, kind ErrorKind) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == kind
}

// IsNotFound reports whether err is a not found store error
func IsNotFound(err error) bool {
	return IsKind(err, KindNotFound)
}

// IsVersionConflict reports whether err is a version conflict store error
func IsVersionConflict(err error) bool {
	return IsKind(err, KindVersionConflict)
}
