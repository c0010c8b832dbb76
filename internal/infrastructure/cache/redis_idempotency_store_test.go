package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	t.Run("reserve uses SET NX with the prefixed key", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisIdempotencyStore(client, "test:")

		mock.ExpectSetNX("test:abc", "1", time.Hour).SetVal(true)
		mock.ExpectSetNX("test:abc", "1", time.Hour).SetVal(false)

		ok, err := store.Reserve(ctx, "abc", time.Hour)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = store.Reserve(ctx, "abc", time.Hour)
		require.NoError(t, err)
		assert.False(t, ok)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("default prefix", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisIdempotencyStore(client, "")

		mock.ExpectDel(DefaultKeyPrefix + "abc").SetVal(1)
		require.NoError(t, store.Release(ctx, "abc"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("redis errors are wrapped", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := NewRedisIdempotencyStore(client, "test:")

		boom := errors.New("connection reset")
		mock.ExpectSetNX("test:abc", "1", time.Minute).SetErr(boom)
		mock.ExpectDel("test:abc").SetErr(boom)

		_, err := store.Reserve(ctx, "abc", time.Minute)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failed to reserve idempotency key")

		err = store.Release(ctx, "abc")
		assert.ErrorIs(t, err, boom)
	})
}
