package middleware

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	myErr "rocketshoes-cart/internal/types/errors"
)

// CartIDHeader заголовок, в котором клиент передаёт id своей корзины
const CartIDHeader = "X-Cart-ID"

type CartIDKey string

var cartIDKey CartIDKey = "cartIDKey"

func CartID(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cartID := r.Header.Get(CartIDHeader)
			if cartID == "" {
				myErr.SendErrorTo(w, myErr.ErrNoCartID, http.StatusBadRequest, logger)
				return
			}

			// Добавляем id корзины в контекст и передаем дальше
			ctx := ContextWithCartID(r.Context(), cartID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ContextWithCartID(ctx context.Context, cartID string) context.Context {
	return context.WithValue(ctx, cartIDKey, cartID)
}

func CartIDFromContext(ctx context.Context) (string, bool) {
	cartID, ok := ctx.Value(cartIDKey).(string)
	return cartID, ok
}
