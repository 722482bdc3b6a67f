package tests

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/modulink/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// CacheContractTest is a reusable test suite that verifies if an adapter complies with ports.Cache.
// Payload values are strings and booleans so JSON-backed adapters round-trip them unchanged.
func CacheContractTest(t *testing.T, cache ports.Cache) {
	t.Helper()
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405.000000")

	t.Run("Get_Miss", func(t *testing.T) {
		payload, ok, err := cache.Get(ctx, "missing-"+key)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, payload)
	})

	t.Run("Set_Then_Get", func(t *testing.T) {
		want := map[string]any{"email": "a@b.com", "sent": true}
		require.NoError(t, cache.Set(ctx, key, want, 0))

		got, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, map[string]any{"v": "1"}, 0))
		require.NoError(t, cache.Set(ctx, key, map[string]any{"v": "2"}, 0))

		got, ok, err := cache.Get(ctx, key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, "2", got["v"])
	})

	t.Run("Returned_Payload_Is_A_Copy", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, map[string]any{"v": "1"}, 0))

		got, _, err := cache.Get(ctx, key)
		require.NoError(t, err)
		got["v"] = "mutated"

		again, _, err := cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, "1", again["v"])
	})
}
