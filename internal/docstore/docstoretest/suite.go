// Package docstoretest holds the conformance suite shared by docstore backends.
package docstoretest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsroom/internal/docstore"
)

type doc struct {
	Name string `json:"name"`
}

// Run exercises a docstore.Store implementation.
func Run(t *testing.T, store docstore.Store) {
	t.Helper()

	t.Run("PutAndGet", func(t *testing.T) {
		require.NoError(t, store.Update(func(tx docstore.Tx) error {
			return docstore.PutJSON(tx, "things", "a", doc{Name: "alpha"})
		}))

		var got doc
		require.NoError(t, store.View(func(tx docstore.Tx) error {
			return docstore.GetJSON(tx, "things", "a", &got)
		}))
		assert.Equal(t, "alpha", got.Name)
	})

	t.Run("GetMissing", func(t *testing.T) {
		err := store.View(func(tx docstore.Tx) error {
			_, err := tx.Get("things", "missing")
			return err
		})
		assert.ErrorIs(t, err, docstore.ErrNotFound)

		err = store.View(func(tx docstore.Tx) error {
			_, err := tx.Get("no-such-collection", "x")
			return err
		})
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Update(func(tx docstore.Tx) error {
			return docstore.PutJSON(tx, "things", "del", doc{Name: "gone"})
		}))
		require.NoError(t, store.Update(func(tx docstore.Tx) error {
			return tx.Delete("things", "del")
		}))
		err := store.View(func(tx docstore.Tx) error {
			_, err := tx.Get("things", "del")
			return err
		})
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		err := store.Update(func(tx docstore.Tx) error {
			return tx.Delete("things", "never-existed")
		})
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("ForEachOrdered", func(t *testing.T) {
		require.NoError(t, store.Update(func(tx docstore.Tx) error {
			for _, id := range []string{"c", "a", "b"} {
				if err := docstore.PutJSON(tx, "ordered", id, doc{Name: id}); err != nil {
					return err
				}
			}
			return nil
		}))

		var names []string
		require.NoError(t, store.View(func(tx docstore.Tx) error {
			return docstore.Each(tx, "ordered", func(d *doc) error {
				names = append(names, d.Name)
				return nil
			})
		}))
		assert.Equal(t, []string{"a", "b", "c"}, names)
	})

	t.Run("FailedUpdateRollsBack", func(t *testing.T) {
		boom := errors.New("boom")
		err := store.Update(func(tx docstore.Tx) error {
			if err := docstore.PutJSON(tx, "things", "rollback", doc{Name: "nope"}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		err = store.View(func(tx docstore.Tx) error {
			_, err := tx.Get("things", "rollback")
			return err
		})
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("ReadYourWrites", func(t *testing.T) {
		require.NoError(t, store.Update(func(tx docstore.Tx) error {
			if err := docstore.PutJSON(tx, "things", "ryw", doc{Name: "fresh"}); err != nil {
				return err
			}
			var got doc
			if err := docstore.GetJSON(tx, "things", "ryw", &got); err != nil {
				return err
			}
			assert.Equal(t, "fresh", got.Name)
			return nil
		}))
	})
}
