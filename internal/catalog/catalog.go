package catalog

import (
	"context"

	"rocketshoes-cart/internal/types/product"
)

// CatalogClient интерфейс для чтения товаров и остатков из удалённого каталога
//
//go:generate mockgen -source=catalog.go -destination=../mocks/mock_catalog_client.go -package=mocks
type CatalogClient interface {
	// GetProduct получает товар по id (GET products/{id})
	GetProduct(ctx context.Context, id int) (*product.Product, error)
	// GetStock получает остаток товара по id (GET stock/{id})
	GetStock(ctx context.Context, id int) (*product.Stock, error)
}
