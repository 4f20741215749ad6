package visitor

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	info, err := store.Load(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Nil(t, info)

	shown := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	want := &Info{
		VisitCount:         3,
		FirstVisitDate:     shown.Add(-time.Hour),
		LastVisitDate:      shown,
		HasSeenPopup:       true,
		PopupShownDate:     &shown,
		BrowserFingerprint: "8pnidv",
	}
	require.NoError(t, store.Save(ctx, "visitor-1", want))

	got, err := store.Load(ctx, "visitor-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.VisitCount, got.VisitCount)
	assert.True(t, want.PopupShownDate.Equal(*got.PopupShownDate))
	assert.Equal(t, want.BrowserFingerprint, got.BrowserFingerprint)

	require.NoError(t, store.Delete(ctx, "visitor-1"))
	require.NoError(t, store.Delete(ctx, "visitor-1"))
	info, err = store.Load(ctx, "visitor-1")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestFileStoreRejectsUnsafeKeys(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "../../etc/passwd")
	assert.Error(t, err)
	assert.Error(t, store.Save(context.Background(), "a/b", &Info{}))
}

func TestRedisStoreSurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	store := NewRedisStore(client)

	_, err := store.Load(context.Background(), "visitor-1")
	assert.ErrorContains(t, err, "failed to read visitor info")
}
