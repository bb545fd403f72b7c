package dummydb

import (
	"context"
	"sync"

	"github.com/bhavyajain7773/ATF-Design/storage"
)

// DB is an in-memory storage.Backend. A positive capacity bounds the summed
// size of the stored values, mimicking a browser storage quota.
type DB struct {
	sync.RWMutex
	table    map[string][]byte
	capacity int
}

var _ storage.Backend = (*DB)(nil)

func Open(capacity ...int) (*DB, error) {
	db := &DB{table: make(map[string][]byte)}
	if len(capacity) > 0 {
		db.capacity = capacity[0]
	}
	return db, nil
}

func (db *DB) used(exclude string) int {
	var n int
	for k, v := range db.table {
		if k != exclude {
			n += len(v)
		}
	}
	return n
}

func (db *DB) Get(_ context.Context, key string) ([]byte, bool, error) {
	db.RLock()
	defer db.RUnlock()
	v, ok := db.table[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (db *DB) Set(_ context.Context, key string, value []byte) error {
	db.Lock()
	defer db.Unlock()
	if db.capacity > 0 && db.used(key)+len(value) > db.capacity {
		return storage.ErrQuotaExceeded
	}
	db.table[key] = append([]byte(nil), value...)
	return nil
}

func (db *DB) SetIfAbsent(_ context.Context, key string, value []byte) (bool, error) {
	db.Lock()
	defer db.Unlock()
	if _, ok := db.table[key]; ok {
		return false, nil
	}
	if db.capacity > 0 && db.used(key)+len(value) > db.capacity {
		return false, storage.ErrQuotaExceeded
	}
	db.table[key] = append([]byte(nil), value...)
	return true, nil
}

func (db *DB) Remove(_ context.Context, key string) error {
	db.Lock()
	defer db.Unlock()
	delete(db.table, key)
	return nil
}

func (db *DB) Clear(_ context.Context, keys ...string) error {
	db.Lock()
	defer db.Unlock()
	for _, k := range keys {
		delete(db.table, k)
	}
	return nil
}

// Put stores raw bytes without any check. Used to seed corrupt records in tests.
func (db *DB) Put(key string, value []byte) {
	db.Lock()
	defer db.Unlock()
	db.table[key] = value
}

// Len returns the number of stored records.
func (db *DB) Len() int {
	db.RLock()
	defer db.RUnlock()
	return len(db.table)
}
