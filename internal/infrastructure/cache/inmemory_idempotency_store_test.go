package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	t.Run("first mark wins, repeat is rejected", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()
		ctx := context.Background()

		newly, err := store.MarkProcessed(ctx, "po-receipt:abc:tok-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, newly)

		newly, err = store.MarkProcessed(ctx, "po-receipt:abc:tok-1", time.Hour)
		require.NoError(t, err)
		assert.False(t, newly)
	})

	t.Run("distinct tokens do not collide", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()
		ctx := context.Background()

		newly, err := store.MarkProcessed(ctx, "po-receipt:abc:tok-1", time.Hour)
		require.NoError(t, err)
		assert.True(t, newly)

		newly, err = store.MarkProcessed(ctx, "po-receipt:abc:tok-2", time.Hour)
		require.NoError(t, err)
		assert.True(t, newly)
	})

	t.Run("IsProcessed reflects marking", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()
		ctx := context.Background()

		processed, err := store.IsProcessed(ctx, "tok")
		require.NoError(t, err)
		assert.False(t, processed)

		_, err = store.MarkProcessed(ctx, "tok", time.Hour)
		require.NoError(t, err)

		processed, err = store.IsProcessed(ctx, "tok")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired entries are treated as unprocessed", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()
		ctx := context.Background()

		_, err := store.MarkProcessed(ctx, "tok", time.Millisecond)
		require.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "tok")
		require.NoError(t, err)
		assert.False(t, processed)

		newly, err := store.MarkProcessed(ctx, "tok", time.Hour)
		require.NoError(t, err)
		assert.True(t, newly)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		assert.NoError(t, store.Close())
		assert.NoError(t, store.Close())
	})
}
