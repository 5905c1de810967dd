package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdfchat/internal/models"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)

	sess := &models.Session{ID: "abc", Files: []string{}, CreatedAt: time.Now()}
	require.NoError(t, store.Put(ctx, sess))

	got, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", got.ID)
	assert.False(t, got.Processed)

	got.Files = append(got.Files, "a.pdf")
	got.Processed = true
	require.NoError(t, store.Put(ctx, got))

	updated, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf"}, updated.Files)
	assert.True(t, updated.Processed)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, models.ErrSessionNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "abc"), models.ErrSessionNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, &models.Session{ID: "s", Files: []string{"one"}}))

	got, err := store.Get(ctx, "s")
	require.NoError(t, err)
	got.Files[0] = "mutated"
	got.Processed = true

	fresh, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, []string{"one"}, fresh.Files)
	assert.False(t, fresh.Processed)
}
