package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetmesh/dispatch/internal/adapter/memory"
)

func TestCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set then get", func(t *testing.T) {
		c := memory.NewCache()
		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))

		got, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("v"), got)
	})

	t.Run("missing key", func(t *testing.T) {
		c := memory.NewCache()
		_, err := c.Get(ctx, "absent")
		require.ErrorIs(t, err, memory.ErrNotFound)
	})

	t.Run("expired entry is gone", func(t *testing.T) {
		c := memory.NewCache()
		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, memory.ErrNotFound)
	})

	t.Run("invalidate removes the entry", func(t *testing.T) {
		c := memory.NewCache()
		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
		require.NoError(t, c.Invalidate(ctx, "k"))

		_, err := c.Get(ctx, "k")
		require.ErrorIs(t, err, memory.ErrNotFound)
	})
}
