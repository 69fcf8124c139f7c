package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/riseflow/pkg/adapters/memory"
	"github.com/aretw0/riseflow/pkg/domain"
	"github.com/aretw0/riseflow/pkg/persistence/middleware"
	"github.com/aretw0/riseflow/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func encrypted(t *testing.T, next ports.KVStore, cfg middleware.EncryptionConfig) ports.KVStore {
	t.Helper()
	mw, err := middleware.NewEncryptionMiddleware(cfg)
	require.NoError(t, err)
	return mw(next)
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	ports.RunStoreContract(t, encrypted(t, memory.NewStore(), middleware.EncryptionConfig{ActiveKey: generateKey(t)}))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ctx := context.Background()

	if err := secure.Set(ctx, "rise:q", []byte(`"student name"`)); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	raw, err := underlying.Get(ctx, "rise:q")
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(raw), "student"), "plaintext leaked: %s", raw)
	assert.Contains(t, string(raw), "__encrypted__")

	got, err := secure.Get(ctx, "rise:q")
	require.NoError(t, err)
	assert.Equal(t, `"student name"`, string(got))
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	oldKey, newKey := generateKey(t), generateKey(t)

	require.NoError(t, encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: oldKey}).
		Set(ctx, "rise:stack", []byte(`["home"]`)))

	rotated := encrypted(t, underlying, middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})
	got, err := rotated.Get(ctx, "rise:stack")
	require.NoError(t, err)
	assert.Equal(t, `["home"]`, string(got))

	wrong := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err = wrong.Get(ctx, "rise:stack")
	assert.Error(t, err)
}

func TestEncryptionMiddleware_RejectsPlainValues(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	require.NoError(t, underlying.Set(ctx, "rise:q", []byte(`"plain"`)))

	secure := encrypted(t, underlying, middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	_, err := secure.Get(ctx, "rise:q")
	assert.Error(t, err)

	_, err = secure.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestNewEncryptionMiddleware_KeySize(t *testing.T) {
	_, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short")})
	assert.ErrorIs(t, err, middleware.ErrKeySize)

	_, err = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    make([]byte, 32),
		FallbackKeys: [][]byte{make([]byte, 16)},
	})
	assert.ErrorIs(t, err, middleware.ErrKeySize)
}

func TestChain(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.KVStore) ports.KVStore {
			calls = append(calls, name)
			return next
		}
	}
	middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	assert.Equal(t, []string{"inner", "outer"}, calls)
}
