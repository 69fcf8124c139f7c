package ports

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreContract runs a suite of tests to verify that a KVStore implementation
// adheres to the defined interface contract.
func RunStoreContract(t *testing.T, store KVStore) {
	ctx := context.Background()
	prefix := "contract-" + time.Now().Format("20060102150405") + "/"

	t.Run("Set and Get", func(t *testing.T) {
		key := prefix + "rise:stack"
		err := store.Set(ctx, key, []byte(`["home","start-class"]`))
		require.NoError(t, err, "Set should not return error")

		got, err := store.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.JSONEq(t, `["home","start-class"]`, string(got))
	})

	t.Run("Overwrite", func(t *testing.T) {
		key := prefix + "rise:q"
		require.NoError(t, store.Set(ctx, key, []byte(`"a"`)))
		require.NoError(t, store.Set(ctx, key, []byte(`"b"`)))

		got, err := store.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, `"b"`, string(got))
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, prefix+"missing")
		assert.ErrorIs(t, err, domain.ErrKeyNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		key := prefix + "to-delete"
		require.NoError(t, store.Set(ctx, key, []byte("1")))

		require.NoError(t, store.Delete(ctx, key), "Delete should not return error")

		_, err := store.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrKeyNotFound, "Get after Delete should return ErrKeyNotFound")

		assert.NoError(t, store.Delete(ctx, key), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		listPrefix := prefix + "list/"
		k1 := listPrefix + "b"
		k2 := listPrefix + "a"
		require.NoError(t, store.Set(ctx, k1, []byte("1")))
		require.NoError(t, store.Set(ctx, k2, []byte("2")))
		defer func() {
			_ = store.Delete(ctx, k1)
			_ = store.Delete(ctx, k2)
		}()

		keys, err := store.List(ctx, listPrefix)
		require.NoError(t, err)
		assert.Equal(t, []string{k2, k1}, keys)

		for _, k := range keys {
			assert.True(t, strings.HasPrefix(k, listPrefix))
		}
	})
}
