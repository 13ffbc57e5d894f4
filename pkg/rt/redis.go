package rt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix prefixes every key written by a RedisStore
const DefaultRedisPrefix = "metagen:"

// RedisStore keeps objects in Redis. Each object is a JSON value next to a
// hash of its columns; reference columns are indexed by sets. Writes run in
// WATCH transactions, a concurrent change fails with a conflict error.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a store on client; an empty prefix uses DefaultRedisPrefix
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Close closes the underlying client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Insert(ctx context.Context, table string, obj any) error {
	identity, err := identify(table, obj, true)
	if err != nil {
		return err
	}
	id := identity.ID
	data, err := json.Marshal(obj)
	if err != nil {
		return ErrInvalid(table, fmt.Sprintf("json marshal error: %v", err))
	}
	columns := Columns(obj)

	return s.watch(ctx, table, id, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, s.objectKey(table, id)).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict(table, id, "object already exists")
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			s.write(ctx, pipe, table, id, data, columns)
			return nil
		})
		return err
	})
}

func (s *RedisStore) Update(ctx context.Context, table string, id ObjectID, obj any) error {
	if _, err := identify(table, obj, false); err != nil {
		return err
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return ErrInvalid(table, fmt.Sprintf("json marshal error: %v", err))
	}
	columns := Columns(obj)
	columns[ColumnID] = id

	return s.watch(ctx, table, id, func(tx *redis.Tx) error {
		old, err := s.columns(ctx, tx, table, id)
		if err != nil {
			return err
		}
		if version, ok := old[ColumnVersion]; ok {
			columns[ColumnVersion] = version
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			s.unindex(ctx, pipe, table, id, old)
			s.write(ctx, pipe, table, id, data, columns)
			return nil
		})
		return err
	})
}

func (s *RedisStore) Delete(ctx context.Context, table string, id ObjectID) error {
	return s.watch(ctx, table, id, func(tx *redis.Tx) error {
		old, err := s.columns(ctx, tx, table, id)
		if err != nil {
			return err
		}
		return s.remove(ctx, tx, table, id, old)
	})
}

func (s *RedisStore) UpdateVersion(ctx context.Context, table string, id ObjectID, v *Versioned) error {
	return s.watch(ctx, table, id, func(tx *redis.Tx) error {
		old, err := s.columns(ctx, tx, table, id)
		if err != nil {
			return err
		}
		stored, err := checkVersion(table, id, old, v.Version)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, s.columnsKey(table, id), ColumnVersion, stored+1)
			return nil
		})
		if err == nil {
			v.Version = stored + 1
		}
		return err
	})
}

func (s *RedisStore) DeleteVersion(ctx context.Context, table string, id ObjectID, version int64) error {
	return s.watch(ctx, table, id, func(tx *redis.Tx) error {
		old, err := s.columns(ctx, tx, table, id)
		if err != nil {
			return err
		}
		if _, err := checkVersion(table, id, old, version); err != nil {
			return err
		}
		return s.remove(ctx, tx, table, id, old)
	})
}

func (s *RedisStore) Load(ctx context.Context, table string, id ObjectID, into any) error {
	data, err := s.client.Get(ctx, s.objectKey(table, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound(table, id)
	}
	if err != nil {
		return fmt.Errorf("redis get error: %w", err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return ErrInvalid(table, fmt.Sprintf("json unmarshal error: %v", err))
	}

	if v := stateOf[Versioned](into); v != nil {
		version, err := s.client.HGet(ctx, s.columnsKey(table, id), ColumnVersion).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("redis hget error: %w", err)
		}
		v.Version = version
	}
	return nil
}

func (s *RedisStore) Exists(ctx context.Context, table string, id ObjectID) (bool, error) {
	n, err := s.client.Exists(ctx, s.objectKey(table, id)).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists error: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Count(ctx context.Context, table, column string, id ObjectID) (int, error) {
	n, err := s.client.SCard(ctx, s.indexKey(table, column, id.String())).Result()
	if err != nil {
		return 0, fmt.Errorf("redis scard error: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) Find(ctx context.Context, table, column string, id ObjectID) ([]MapRow, error) {
	members, err := s.client.SMembers(ctx, s.indexKey(table, column, id.String())).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers error: %w", err)
	}
	sort.Strings(members)

	rows := make([]MapRow, 0, len(members))
	for _, member := range members {
		values, err := s.client.HGetAll(ctx, s.prefix+table+":"+member+columnsSuffix).Result()
		if err != nil {
			return nil, fmt.Errorf("redis hgetall error: %w", err)
		}
		if len(values) == 0 {
			continue
		}
		row := make(MapRow, len(values))
		for k, v := range values {
			row[k] = v
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *RedisStore) objectKey(table string, id ObjectID) string {
	return s.prefix + table + ":" + id.String()
}

const columnsSuffix = ":columns"

func (s *RedisStore) columnsKey(table string, id ObjectID) string {
	return s.objectKey(table, id) + columnsSuffix
}

func (s *RedisStore) indexKey(table, column, value string) string {
	return s.prefix + table + ":" + column + ":" + value
}

// watch runs fn in a transaction watching the keys of one object
func (s *RedisStore) watch(ctx context.Context, table string, id ObjectID, fn func(tx *redis.Tx) error) error {
	err := s.client.Watch(ctx, fn, s.objectKey(table, id), s.columnsKey(table, id))
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict(table, id, "object changed concurrently")
	}
	var se *StoreError
	if err != nil && !errors.As(err, &se) {
		return fmt.Errorf("redis transaction error: %w", err)
	}
	return err
}

// columns reads the stored columns of an object, failing when it does not exist
func (s *RedisStore) columns(ctx context.Context, tx *redis.Tx, table string, id ObjectID) (map[string]string, error) {
	values, err := tx.HGetAll(ctx, s.columnsKey(table, id)).Result()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, ErrNotFound(table, id)
	}
	return values, nil
}

func (s *RedisStore) write(ctx context.Context, pipe redis.Pipeliner, table string, id ObjectID, data []byte, columns MapRow) {
	values := make(map[string]interface{}, len(columns))
	for column, value := range columns.Strings() {
		values[column] = value
	}
	pipe.Set(ctx, s.objectKey(table, id), data, 0)
	pipe.Del(ctx, s.columnsKey(table, id))
	pipe.HSet(ctx, s.columnsKey(table, id), values)
	for _, column := range indexedColumns {
		if _, ok := columns[column]; ok {
			pipe.SAdd(ctx, s.indexKey(table, column, columns.String(column)), id.String())
		}
	}
}

func (s *RedisStore) unindex(ctx context.Context, pipe redis.Pipeliner, table string, id ObjectID, old map[string]string) {
	for _, column := range indexedColumns {
		if value, ok := old[column]; ok {
			pipe.SRem(ctx, s.indexKey(table, column, value), id.String())
		}
	}
}

func (s *RedisStore) remove(ctx context.Context, tx *redis.Tx, table string, id ObjectID, old map[string]string) error {
	_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		s.unindex(ctx, pipe, table, id, old)
		pipe.Del(ctx, s.objectKey(table, id), s.columnsKey(table, id))
		return nil
	})
	return err
}

// checkVersion compares the stored version column with expected
func checkVersion(table string, id ObjectID, columns map[string]string, expected int64) (int64, error) {
	value, ok := columns[ColumnVersion]
	if !ok {
		return 0, ErrInvalid(table, "object has no VERSIONED state")
	}
	stored, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, ErrInvalid(table, fmt.Sprintf("invalid stored version %q", value))
	}
	if stored != expected {
		return 0, ErrVersionConflict(table, id, expected, stored)
	}
	return stored, nil
}
