package rt

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// MemoryStore keeps objects in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu     sync.RWMutex
	tables map[string]map[ObjectID]any
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tables: make(map[string]map[ObjectID]any)}
}

func (s *MemoryStore) Insert(ctx context.Context, table string, obj any) error {
	identity, err := identify(table, obj, true)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.table(table)
	if _, exists := rows[identity.ID]; exists {
		return ErrConflict(table, identity.ID, "object already exists")
	}
	rows[identity.ID] = clone(obj)
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, table string, id ObjectID, obj any) error {
	if _, err := identify(table, obj, false); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.tables[table][id]
	if !ok {
		return ErrNotFound(table, id)
	}
	if reflect.TypeOf(stored) != reflect.TypeOf(obj) {
		return ErrInvalid(table, fmt.Sprintf("cannot replace %T with %T", stored, obj))
	}
	updated := clone(obj)
	if v := stateOf[Versioned](updated); v != nil {
		if old := stateOf[Versioned](stored); old != nil {
			v.Version = old.Version
		}
	}
	stateOf[UniqueIdentified](updated).ID = id
	s.tables[table][id] = updated
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, table string, id ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tables[table][id]; !ok {
		return ErrNotFound(table, id)
	}
	delete(s.tables[table], id)
	return nil
}

func (s *MemoryStore) UpdateVersion(ctx context.Context, table string, id ObjectID, v *Versioned) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.storedVersion(table, id, v.Version)
	if err != nil {
		return err
	}
	stored.Version++
	v.Version = stored.Version
	return nil
}

func (s *MemoryStore) DeleteVersion(ctx context.Context, table string, id ObjectID, version int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.storedVersion(table, id, version); err != nil {
		return err
	}
	delete(s.tables[table], id)
	return nil
}

func (s *MemoryStore) Load(ctx context.Context, table string, id ObjectID, into any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.tables[table][id]
	if !ok {
		return ErrNotFound(table, id)
	}
	target := reflect.ValueOf(into)
	if target.Kind() != reflect.Pointer || target.IsNil() || target.Type() != reflect.TypeOf(stored) {
		return ErrInvalid(table, fmt.Sprintf("cannot load %T into %T", stored, into))
	}
	target.Elem().Set(reflect.ValueOf(clone(stored)).Elem())
	return nil
}

func (s *MemoryStore) Exists(ctx context.Context, table string, id ObjectID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.tables[table][id]
	return ok, nil
}

func (s *MemoryStore) Count(ctx context.Context, table, column string, id ObjectID) (int, error) {
	rows, err := s.Find(ctx, table, column, id)
	return len(rows), err
}

func (s *MemoryStore) Find(ctx context.Context, table, column string, id ObjectID) ([]MapRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []MapRow
	for _, obj := range s.tables[table] {
		row := Columns(obj)
		if _, ok := row[column]; ok && row.ObjectID(column) == id {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// Len returns the number of objects stored in table
func (s *MemoryStore) Len(table string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables[table])
}

func (s *MemoryStore) table(name string) map[ObjectID]any {
	rows, ok := s.tables[name]
	if !ok {
		rows = make(map[ObjectID]any)
		s.tables[name] = rows
	}
	return rows
}

// storedVersion returns the version state of a stored object after checking it against expected
func (s *MemoryStore) storedVersion(table string, id ObjectID, expected int64) (*Versioned, error) {
	stored, ok := s.tables[table][id]
	if !ok {
		return nil, ErrNotFound(table, id)
	}
	v := stateOf[Versioned](stored)
	if v == nil {
		return nil, ErrInvalid(table, "object has no VERSIONED state")
	}
	if v.Version != expected {
		return nil, ErrVersionConflict(table, id, expected, v.Version)
	}
	return v, nil
}
