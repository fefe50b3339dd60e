package thread_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koopa0/canvas/internal/message"
	"github.com/koopa0/canvas/internal/store"
	"github.com/koopa0/canvas/internal/thread"
)

func TestServiceRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := thread.NewService(store.NewMemory(), nil)

	rec := svc.New()
	require.NotEmpty(t, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	rec.Messages = append(rec.Messages, message.NewHuman("hello"))
	require.NoError(t, svc.Save(ctx, "alice", rec))
	assert.False(t, rec.UpdatedAt.Before(rec.CreatedAt))

	loaded, err := svc.Load(ctx, "alice", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, loaded.ID)
	require.Len(t, loaded.Messages, 1)
	assert.Equal(t, "hello", loaded.Messages[0].Text())
}

func TestServiceLoadMissing(t *testing.T) {
	t.Parallel()

	svc := thread.NewService(store.NewMemory(), nil)
	_, err := svc.Load(context.Background(), "alice", "no-such-thread")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestServiceOwnerIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := thread.NewService(store.NewMemory(), nil)

	rec := svc.New()
	require.NoError(t, svc.Save(ctx, "alice", rec))

	_, err := svc.Load(ctx, "bob", rec.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestServiceSetTitle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := thread.NewService(store.NewMemory(), nil)

	rec := svc.New()
	require.NoError(t, svc.SetTitle(ctx, "alice", rec, "Trip planning"))

	loaded, err := svc.Load(ctx, "alice", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "Trip planning", loaded.Title)
}

func TestServiceDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := thread.NewService(store.NewMemory(), nil)

	rec := svc.New()
	require.NoError(t, svc.Save(ctx, "alice", rec))
	require.NoError(t, svc.Delete(ctx, "alice", rec.ID))

	_, err := svc.Load(ctx, "alice", rec.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCurrentThread(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "state")

	id, err := thread.Current(dir)
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, thread.SetCurrent(dir, "thread-42"))

	id, err = thread.Current(dir)
	require.NoError(t, err)
	assert.Equal(t, "thread-42", id)
}

func TestTurnLock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	lock, err := thread.AcquireTurnLock(ctx, dir, "abc/123")
	require.NoError(t, err)
	require.NoError(t, lock.Release())

	// Reacquirable after release.
	lock, err = thread.AcquireTurnLock(ctx, dir, "abc/123")
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}
