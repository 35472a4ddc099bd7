package bolt

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/newsdesk/newsroom/internal/docstore"
	"github.com/newsdesk/newsroom/internal/docstore/docstoretest"
)

func TestStore(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "data", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	docstoretest.Run(t, store)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Update(func(tx docstore.Tx) error {
		return tx.Put("things", "k", []byte(`{"name":"kept"}`))
	}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	require.NoError(t, reopened.View(func(tx docstore.Tx) error {
		data, err := tx.Get("things", "k")
		if err != nil {
			return err
		}
		require.JSONEq(t, `{"name":"kept"}`, string(data))
		return nil
	}))
}
