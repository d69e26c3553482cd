package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	myErr "rocketshoes-cart/internal/types/errors"
	"rocketshoes-cart/internal/types/product"
)

func setupRedis(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	logger := zaptest.NewLogger(t).Sugar()

	return NewRedisStorage(rdb, logger), mr
}

func TestRedisStorage_SaveAndLoad(t *testing.T) {
	rs, mr := setupRedis(t)
	ctx := context.Background()
	key := CartKey("abc")

	items := []product.CartItem{
		{Product: product.Product{ID: 1, Title: "Shoe", Price: decimal.NewFromInt(10)}, Amount: 2},
		{Product: product.Product{ID: 2, Title: "Boot", Price: decimal.RequireFromString("99.9")}, Amount: 1},
	}
	require.NoError(t, rs.Save(ctx, key, items))

	// Проверка записи в Redis
	raw, err := mr.Get(key)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":1,"title":"Shoe","price":10,"image":"","amount":2},
		{"id":2,"title":"Boot","price":99.9,"image":"","amount":1}
	]`, raw)
	assert.False(t, mr.TTL(key) > 0)

	loaded, err := rs.Load(ctx, key)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, 1, loaded[0].ID)
	assert.Equal(t, 2, loaded[0].Amount)
	assert.Equal(t, "99.9", loaded[1].Price.String())
}

func TestRedisStorage_SaveEmpty(t *testing.T) {
	rs, mr := setupRedis(t)

	require.NoError(t, rs.Save(context.Background(), Key, nil))

	raw, err := mr.Get(Key)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)
}

func TestRedisStorage_LoadMissing(t *testing.T) {
	rs, _ := setupRedis(t)

	items, err := rs.Load(context.Background(), CartKey("missing"))
	assert.Nil(t, items)
	assert.ErrorIs(t, err, myErr.ErrNotFound)
}

func TestRedisStorage_LoadCorrupted(t *testing.T) {
	rs, mr := setupRedis(t)
	require.NoError(t, mr.Set(Key, "{not json"))

	_, err := rs.Load(context.Background(), Key)
	assert.ErrorIs(t, err, myErr.ErrCorrupted)
}

func TestRedisStorage_Unavailable(t *testing.T) {
	rs, mr := setupRedis(t)
	mr.Close()

	err := rs.Save(context.Background(), Key, []product.CartItem{})
	assert.ErrorIs(t, err, myErr.ErrStorage)

	_, err = rs.Load(context.Background(), Key)
	assert.ErrorIs(t, err, myErr.ErrStorage)
}
