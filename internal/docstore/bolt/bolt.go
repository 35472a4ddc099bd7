// Package bolt provides a BBolt-backed docstore.Store. Each collection is a
// top-level bucket; documents are stored under their id.
package bolt

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/newsdesk/newsroom/internal/docstore"
)

// Store implements docstore.Store on a BBolt database file.
type Store struct {
	db *bbolt.DB
}

var _ docstore.Store = (*Store)(nil)

// NewStore wraps an already opened database.
func NewStore(db *bbolt.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) the database file at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening bbolt db: %w", err)
	}
	return NewStore(db), nil
}

func (s *Store) View(fn func(tx docstore.Tx) error) error {
	return s.db.View(func(btx *bbolt.Tx) error {
		return fn(&tx{btx: btx})
	})
}

func (s *Store) Update(fn func(tx docstore.Tx) error) error {
	return s.db.Update(func(btx *bbolt.Tx) error {
		return fn(&tx{btx: btx})
	})
}

// Close closes the underlying BBolt database.
func (s *Store) Close() error {
	return s.db.Close()
}

type tx struct {
	btx *bbolt.Tx
}

func (t *tx) Get(collection, id string) ([]byte, error) {
	b := t.btx.Bucket([]byte(collection))
	if b == nil {
		return nil, docstore.ErrNotFound
	}
	data := b.Get([]byte(id))
	if data == nil {
		return nil, docstore.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

func (t *tx) Put(collection, id string, doc []byte) error {
	b, err := t.btx.CreateBucketIfNotExists([]byte(collection))
	if err != nil {
		return fmt.Errorf("bucket %s: %w", collection, err)
	}
	return b.Put([]byte(id), doc)
}

func (t *tx) Delete(collection, id string) error {
	b := t.btx.Bucket([]byte(collection))
	if b == nil || b.Get([]byte(id)) == nil {
		return docstore.ErrNotFound
	}
	return b.Delete([]byte(id))
}

func (t *tx) ForEach(collection string, fn func(id string, doc []byte) error) error {
	b := t.btx.Bucket([]byte(collection))
	if b == nil {
		return nil
	}
	return b.ForEach(func(k, v []byte) error {
		return fn(string(k), v)
	})
}
