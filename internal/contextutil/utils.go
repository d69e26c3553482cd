package contextutil

import (
	"context"

	"rocketshoes-cart/internal/middleware"
)

// GetCartIDFromContext извлекает id корзины из контекста
func GetCartIDFromContext(ctx context.Context) (string, bool) {
	cartID, ok := middleware.CartIDFromContext(ctx)
	if !ok || cartID == "" {
		return "", false
	}
	return cartID, true
}
