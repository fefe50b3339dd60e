//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopa0/canvas/internal/log"
	"github.com/koopa0/canvas/internal/store"
	"github.com/koopa0/canvas/internal/testutil"
)

func TestPostgresStore(t *testing.T) {
	db, cleanup := testutil.SetupTestDB(t)
	defer cleanup()

	st, err := store.NewPostgres(db.Pool, log.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	ns := store.Namespace{Kind: "threads", Owner: "local"}

	t.Run("missing key", func(t *testing.T) {
		_, err := st.Get(ctx, ns, "absent")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("put get roundtrip", func(t *testing.T) {
		require.NoError(t, st.Put(ctx, ns, "t1", []byte(`{"title":"Essay"}`)))
		got, err := st.Get(ctx, ns, "t1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"Essay"}`, string(got))
	})

	t.Run("put upserts", func(t *testing.T) {
		require.NoError(t, st.Put(ctx, ns, "t1", []byte(`{"title":"Renamed"}`)))
		got, err := st.Get(ctx, ns, "t1")
		require.NoError(t, err)
		assert.JSONEq(t, `{"title":"Renamed"}`, string(got))
	})

	t.Run("namespace isolation", func(t *testing.T) {
		other := store.Namespace{Kind: "threads", Owner: "someone-else"}
		_, err := st.Get(ctx, other, "t1")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, st.Delete(ctx, ns, "t1"))
		_, err := st.Get(ctx, ns, "t1")
		assert.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, st.Delete(ctx, ns, "t1"))
	})
}
