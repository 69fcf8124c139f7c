package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/riseflow/pkg/adapters/redis"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	store := redis.NewFromClient(client)
	ports.RunStoreContract(t, store)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "rise:q", []byte(`"deten"`)))
	assert.True(t, mr.Exists("test:kv:rise:q"))
}

func TestRedisStore_TTL(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "rise:stack", []byte(`["home"]`)))
	mr.FastForward(2 * time.Minute)

	_, err := store.Get(ctx, "rise:stack")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestRedisStore_Unavailable(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client)
	mr.Close()

	_, err := store.Get(context.Background(), "rise:q")
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrKeyNotFound)
}
