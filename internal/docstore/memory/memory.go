// Package memory provides a thread-safe in-memory docstore.Store.
// Suitable for tests, demos and single-process development.
package memory

import (
	"sort"
	"sync"

	"github.com/newsdesk/newsroom/internal/docstore"
)

// Store is an in-memory docstore.Store. Update transactions are serialized and
// applied atomically: a failing transaction leaves the store unchanged.
type Store struct {
	mu   sync.RWMutex
	data map[string]map[string][]byte
}

var _ docstore.Store = (*Store)(nil)

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{data: make(map[string]map[string][]byte)}
}

func (s *Store) View(fn func(tx docstore.Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&tx{base: s.data})
}

func (s *Store) Update(fn func(tx docstore.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{base: s.data, writable: true, pending: make(map[string]map[string][]byte)}
	if err := fn(t); err != nil {
		return err
	}
	for collection, docs := range t.pending {
		target, ok := s.data[collection]
		if !ok {
			target = make(map[string][]byte)
			s.data[collection] = target
		}
		for id, doc := range docs {
			if doc == nil {
				delete(target, id)
				continue
			}
			target[id] = doc
		}
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}

// tx overlays pending writes on the committed data; a nil pending value is a
// deletion.
type tx struct {
	base     map[string]map[string][]byte
	pending  map[string]map[string][]byte
	writable bool
}

func (t *tx) lookup(collection, id string) ([]byte, bool) {
	if docs, ok := t.pending[collection]; ok {
		if doc, ok := docs[id]; ok {
			return doc, doc != nil
		}
	}
	doc, ok := t.base[collection][id]
	return doc, ok
}

func (t *tx) Get(collection, id string) ([]byte, error) {
	doc, ok := t.lookup(collection, id)
	if !ok {
		return nil, docstore.ErrNotFound
	}
	return append([]byte(nil), doc...), nil
}

func (t *tx) Put(collection, id string, doc []byte) error {
	if !t.writable {
		return errReadOnly
	}
	t.stage(collection, id, append([]byte(nil), doc...))
	return nil
}

func (t *tx) Delete(collection, id string) error {
	if !t.writable {
		return errReadOnly
	}
	if _, ok := t.lookup(collection, id); !ok {
		return docstore.ErrNotFound
	}
	t.stage(collection, id, nil)
	return nil
}

func (t *tx) stage(collection, id string, doc []byte) {
	docs, ok := t.pending[collection]
	if !ok {
		docs = make(map[string][]byte)
		t.pending[collection] = docs
	}
	docs[id] = doc
}

// ForEach visits documents in id order, matching bbolt's key ordering.
func (t *tx) ForEach(collection string, fn func(id string, doc []byte) error) error {
	ids := make(map[string]struct{})
	for id := range t.base[collection] {
		ids[id] = struct{}{}
	}
	for id := range t.pending[collection] {
		ids[id] = struct{}{}
	}
	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	for _, id := range sorted {
		doc, ok := t.lookup(collection, id)
		if !ok {
			continue
		}
		if err := fn(id, append([]byte(nil), doc...)); err != nil {
			return err
		}
	}
	return nil
}
