package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	myErr "rocketshoes-cart/internal/types/errors"
	"rocketshoes-cart/internal/types/product"
)

type RedisStorage struct {
	RedisClient *redis.Client
	Logger      *zap.SugaredLogger
}

func NewRedisStorage(redisClient *redis.Client, logger *zap.SugaredLogger) *RedisStorage {
	return &RedisStorage{
		RedisClient: redisClient,
		Logger:      logger,
	}
}

func (rs *RedisStorage) Load(ctx context.Context, key string) ([]product.CartItem, error) {
	data, err := rs.RedisClient.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, myErr.ErrNotFound
		}

		rs.Logger.Error(
			"Failed get cart from Redis",
			zap.Error(err),
			zap.String("key", key),
		)

		return nil, fmt.Errorf("%w: %v", myErr.ErrStorage, err)
	}

	var items []product.CartItem
	if err = json.Unmarshal(data, &items); err != nil {
		rs.Logger.Error(
			"Failed decode cart from JSON",
			zap.Error(err),
			zap.String("key", key),
		)

		return nil, myErr.ErrCorrupted
	}

	return items, nil
}

func (rs *RedisStorage) Save(ctx context.Context, key string, items []product.CartItem) error {
	if items == nil {
		items = []product.CartItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		rs.Logger.Error(
			"Failed encode cart to JSON",
			zap.Error(err),
			zap.String("key", key),
		)

		return fmt.Errorf("%w: %v", myErr.ErrStorage, err)
	}

	// снимок живёт дольше процесса, поэтому без TTL
	if err = rs.RedisClient.Set(ctx, key, data, 0).Err(); err != nil {
		rs.Logger.Error(
			"Failed save cart to Redis",
			zap.Error(err),
			zap.String("key", key),
		)

		return fmt.Errorf("%w: %v", myErr.ErrStorage, err)
	}
	rs.Logger.Debugf("Cart %s saved to Redis (%d items)", key, len(items))

	return nil
}
