package cart

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	myErr "rocketshoes-cart/internal/types/errors"
)

// DefaultCacheSize сколько корзин держим в памяти, если размер не задан
const DefaultCacheSize = 1024

// Registry держит недавно использованные корзины по их id.
// Кэш ограничен по размеру и по времени жизни записи; вытесненная корзина
// при следующем обращении заново читается из хранилища.
type Registry struct {
	deps Deps

	// mu защищает только проверку и вставку в кэш, не поход в хранилище
	mu    sync.Mutex
	cache *expirable.LRU[string, *Store]
}

// NewRegistry создаёт реестр; size <= 0 - DefaultCacheSize, ttl <= 0 - без истечения
func NewRegistry(deps Deps, size int, ttl time.Duration) *Registry {
	if size <= 0 {
		size = DefaultCacheSize
	}

	return &Registry{
		deps:  deps,
		cache: expirable.NewLRU[string, *Store](size, nil, ttl),
	}
}

// NewCartID выдаёт id для новой корзины
func NewCartID() string {
	return uuid.New().String()
}

// Get возвращает корзину по id, при промахе кэша читает её снимок из хранилища
func (r *Registry) Get(ctx context.Context, cartID string) (*Store, error) {
	id, err := uuid.Parse(cartID)
	if err != nil {
		return nil, fmt.Errorf("cart id %q: %w", cartID, myErr.ErrBadID)
	}
	key := id.String()

	if s, ok := r.cache.Get(key); ok {
		return s, nil
	}

	s := NewStore(key, r.deps)
	if err := s.Load(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// пока читали, корзину мог положить параллельный запрос
	if cached, ok := r.cache.Get(key); ok {
		return cached, nil
	}
	r.cache.Add(key, s)

	return s, nil
}

// Len число корзин в кэше
func (r *Registry) Len() int {
	return r.cache.Len()
}

// Carts - источник корзин для HTTP слоя
type Carts interface {
	Get(ctx context.Context, cartID string) (*Store, error)
}
