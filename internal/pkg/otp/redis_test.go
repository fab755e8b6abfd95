package otp

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStoreWithClient(client, zerolog.Nop())
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStorePutGet(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	rec := Record{Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute), Attempts: 1}
	require.NoError(t, store.Put(ctx, "alice@example.edu", rec, 5*time.Minute))

	got, err := store.Get(ctx, "alice@example.edu")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "123456", got.Code)
	assert.Equal(t, 1, got.Attempts)
	assert.Equal(t, rec.ExpiresAt.UnixNano(), got.ExpiresAt.UnixNano())
}

func TestRedisStoreGetMissing(t *testing.T) {
	store, _ := newTestRedisStore(t)

	got, err := store.Get(context.Background(), "nobody@example.edu")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStoreNativeExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	rec := Record{Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}
	require.NoError(t, store.Put(ctx, "alice@example.edu", rec, 5*time.Minute))

	mr.FastForward(6 * time.Minute)

	got, err := store.Get(ctx, "alice@example.edu")
	require.NoError(t, err)
	assert.Nil(t, got, "Redis expires the record without a sweeper")
}

func TestRedisStorePutReplacesRecord(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	first := Record{Code: "111111", ExpiresAt: time.Now().Add(5 * time.Minute), Attempts: 2}
	require.NoError(t, store.Put(ctx, "alice@example.edu", first, 5*time.Minute))

	second := Record{Code: "222222", ExpiresAt: time.Now().Add(5 * time.Minute)}
	require.NoError(t, store.Put(ctx, "alice@example.edu", second, 5*time.Minute))

	got, err := store.Get(ctx, "alice@example.edu")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "222222", got.Code)
	assert.Equal(t, 0, got.Attempts)
}

func TestRedisStoreIncrementAttempts(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	attempts, err := store.IncrementAttempts(ctx, "nobody@example.edu")
	require.NoError(t, err)
	assert.Equal(t, 0, attempts, "missing records do not get resurrected")

	rec := Record{Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}
	require.NoError(t, store.Put(ctx, "alice@example.edu", rec, 5*time.Minute))

	attempts, err = store.IncrementAttempts(ctx, "alice@example.edu")
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)

	attempts, err = store.IncrementAttempts(ctx, "alice@example.edu")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRedisStoreCompareAndDelete(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	rec := Record{Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}
	require.NoError(t, store.Put(ctx, "alice@example.edu", rec, 5*time.Minute))

	consumed, err := store.CompareAndDelete(ctx, "alice@example.edu", "654321")
	require.NoError(t, err)
	assert.False(t, consumed)

	got, err := store.Get(ctx, "alice@example.edu")
	require.NoError(t, err)
	require.NotNil(t, got, "the record survives a mismatched consume")

	consumed, err = store.CompareAndDelete(ctx, "alice@example.edu", "123456")
	require.NoError(t, err)
	assert.True(t, consumed)

	consumed, err = store.CompareAndDelete(ctx, "alice@example.edu", "123456")
	require.NoError(t, err)
	assert.False(t, consumed, "consumption is single use")
}

func TestRedisStoreDelete(t *testing.T) {
	store, _ := newTestRedisStore(t)
	ctx := context.Background()

	rec := Record{Code: "123456", ExpiresAt: time.Now().Add(5 * time.Minute)}
	require.NoError(t, store.Put(ctx, "alice@example.edu", rec, 5*time.Minute))

	require.NoError(t, store.Delete(ctx, "alice@example.edu"))
	require.NoError(t, store.Delete(ctx, "alice@example.edu"))

	got, err := store.Get(ctx, "alice@example.edu")
	require.NoError(t, err)
	assert.Nil(t, got)
}
