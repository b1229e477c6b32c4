package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("first mark wins, second is rejected", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()

		fresh, err := store.MarkProcessed(ctx, "settlement:abc", time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh)

		fresh, err = store.MarkProcessed(ctx, "settlement:abc", time.Minute)
		require.NoError(t, err)
		assert.False(t, fresh)

		processed, err := store.IsProcessed(ctx, "settlement:abc")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired entries are treated as unprocessed", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()

		fresh, err := store.MarkProcessed(ctx, "settlement:xyz", -time.Second)
		require.NoError(t, err)
		assert.True(t, fresh)

		processed, err := store.IsProcessed(ctx, "settlement:xyz")
		require.NoError(t, err)
		assert.False(t, processed)

		fresh, err = store.MarkProcessed(ctx, "settlement:xyz", time.Minute)
		require.NoError(t, err)
		assert.True(t, fresh)
	})

	t.Run("close clears all entries", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		_, err := store.MarkProcessed(ctx, "k", time.Minute)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		processed, err := store.IsProcessed(ctx, "k")
		require.NoError(t, err)
		assert.False(t, processed)
	})
}
