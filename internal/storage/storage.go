package storage

import (
	"context"
	"fmt"

	"rocketshoes-cart/internal/types/product"
)

// Key фиксированный слот, под которым лежит снимок корзины
const Key = "@RocketShoes:cart"

// CartKey слот конкретной корзины
func CartKey(cartID string) string {
	return fmt.Sprintf("%s:%s", Key, cartID)
}

// Storage - постоянное key-value хранилище снимков корзины
//
//go:generate mockgen -source=storage.go -destination=../mocks/mock_storage.go -package=mocks
type Storage interface {
	// Load читает снимок корзины; если снимка нет - возвращает ErrNotFound
	Load(ctx context.Context, key string) ([]product.CartItem, error)
	// Save перезаписывает снимок корзины целиком
	Save(ctx context.Context, key string, items []product.CartItem) error
}
