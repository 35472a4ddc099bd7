// Package docstore defines a small transactional document store: named
// collections of JSON documents keyed by id.
package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Store runs read-only and read-write transactions.
type Store interface {
	View(fn func(tx Tx) error) error
	Update(fn func(tx Tx) error) error
	Close() error
}

// Tx is a view of the store inside a transaction. Byte slices returned by
// Get and passed to ForEach are only valid until the transaction ends.
type Tx interface {
	Get(collection, id string) ([]byte, error)
	Put(collection, id string, doc []byte) error
	Delete(collection, id string) error
	ForEach(collection string, fn func(id string, doc []byte) error) error
}

// GetJSON loads a document and decodes it into v.
func GetJSON(tx Tx, collection, id string, v any) error {
	data, err := tx.Get(collection, id)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return nil
}

// PutJSON encodes v and stores it.
func PutJSON(tx Tx, collection, id string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", collection, id, err)
	}
	return tx.Put(collection, id, data)
}

// Each decodes every document of a collection into a fresh T.
func Each[T any](tx Tx, collection string, fn func(doc *T) error) error {
	return tx.ForEach(collection, func(id string, data []byte) error {
		var doc T
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		return fn(&doc)
	})
}
