package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rocketshoes-cart/internal/catalog"
	"rocketshoes-cart/internal/kafka"
	"rocketshoes-cart/internal/notify"
	"rocketshoes-cart/internal/storage"
	myErr "rocketshoes-cart/internal/types/errors"
	"rocketshoes-cart/internal/types/product"
)

// Deps - внешние зависимости корзины
type Deps struct {
	Catalog  catalog.CatalogClient
	Storage  storage.Storage
	Notifier notify.Notifier
	// Events может быть nil, тогда события не отправляются
	Events kafka.EventProducer
	Logger *zap.SugaredLogger
	// EnforceStock включает проверку остатков через каталог
	EnforceStock bool
}

// Store хранит одну корзину: упорядоченный список позиций в памяти
// и его снимок в постоянном хранилище.
//
// Изменения выполняются строго по одному (writeMu держится и во время похода в каталог),
// поэтому два параллельных AddProduct одного товара дадут amount=2, а не две позиции.
// Перед каждым изменением снимок перечитывается из хранилища, так что правки
// другого процесса с тем же хранилищем не теряются.
// Новый снимок сначала пишется в хранилище и только потом подменяет состояние в памяти.
type Store struct {
	ID   string
	Key  string
	deps Deps

	writeMu sync.Mutex

	snapMu sync.RWMutex
	items  []product.CartItem

	listenersMu  sync.Mutex
	listeners    map[int]func([]product.CartItem)
	nextListener int
}

func NewStore(id string, deps Deps) *Store {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.NewLogNotifier(deps.Logger)
	}

	return &Store{
		ID:        id,
		Key:       storage.CartKey(id),
		deps:      deps,
		items:     []product.CartItem{},
		listeners: make(map[int]func([]product.CartItem)),
	}
}

// Load читает сохранённый снимок; если его нет или он битый - корзина пустая
func (s *Store) Load(ctx context.Context) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err := s.reload(ctx)

	return err
}

// reload перечитывает снимок из хранилища и обновляет память.
// Вызывается под writeMu: память лишь кэш, источник истины - хранилище.
func (s *Store) reload(ctx context.Context) ([]product.CartItem, error) {
	items, err := s.deps.Storage.Load(ctx, s.Key)
	switch {
	case err == nil:
	case errors.Is(err, myErr.ErrNotFound):
		items = []product.CartItem{}
	case errors.Is(err, myErr.ErrCorrupted):
		s.deps.Logger.Warnw("dropping corrupted cart snapshot", "cart", s.ID)
		items = []product.CartItem{}
	default:
		return nil, fmt.Errorf("load cart %s: %w", s.ID, err)
	}

	s.snapMu.Lock()
	s.items = items
	s.snapMu.Unlock()

	return clone(items), nil
}

// Cart возвращает копию текущего содержимого корзины
func (s *Store) Cart() []product.CartItem {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()

	return clone(s.items)
}

// Len количество разных товаров в корзине
func (s *Store) Len() int {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()

	return len(s.items)
}

// Total сумма корзины
func (s *Store) Total() decimal.Decimal {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()

	return product.Total(s.items)
}

// Subscribe регистрирует слушателя новых снимков корзины.
// Слушатель вызывается под блокировкой записи и не должен менять корзину.
func (s *Store) Subscribe(fn func([]product.CartItem)) (unsubscribe func()) {
	s.listenersMu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.listenersMu.Lock()
			delete(s.listeners, id)
			s.listenersMu.Unlock()
		})
	}
}

// AddProduct добавляет товар в корзину: если он уже есть - увеличивает количество на 1,
// иначе получает товар из каталога и добавляет в конец с amount=1
func (s *Store) AddProduct(ctx context.Context, productID int) error {
	s.writeMu.Lock()
	event, err := s.addProduct(ctx, productID)
	s.writeMu.Unlock()

	if err != nil {
		observe(opAdd, err)
		s.deps.Logger.Warnw("failed to add product", "cart", s.ID, "product", productID, "err", err)
		if errors.Is(err, myErr.ErrOutOfStock) {
			s.notify(ctx, notify.Error(notify.MsgOutOfStock))
		} else {
			s.notify(ctx, notify.Error(notify.MsgAddFailure))
		}
		return err
	}

	observe(opAdd, nil)
	s.notify(ctx, notify.Success(notify.MsgAddSuccess))
	s.publish(ctx, event)

	return nil
}

func (s *Store) addProduct(ctx context.Context, productID int) (*kafka.Event, error) {
	current, err := s.reload(ctx)
	if err != nil {
		return nil, err
	}

	if idx := indexOf(current, productID); idx >= 0 {
		return s.updateAmount(ctx, current, productID, current[idx].Amount+1, kafka.EventTypeAddToCart)
	}

	if err := s.checkStock(ctx, productID, 1); err != nil {
		return nil, err
	}

	p, err := s.deps.Catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("fetch product %d: %w", productID, err)
	}

	next := append(current, product.CartItem{Product: *p, Amount: 1})
	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	return s.event(kafka.EventTypeAddToCart, productID, 1), nil
}

// RemoveProduct убирает товар из корзины; отсутствующий товар ничего не меняет
func (s *Store) RemoveProduct(ctx context.Context, productID int) error {
	s.writeMu.Lock()
	event, err := s.removeProduct(ctx, productID)
	s.writeMu.Unlock()

	if err != nil {
		observe(opRemove, err)
		s.deps.Logger.Warnw("failed to remove product", "cart", s.ID, "product", productID, "err", err)
		s.notify(ctx, notify.Error(notify.MsgRemoveFailure))
		return err
	}

	observe(opRemove, nil)
	s.notify(ctx, notify.Success(notify.MsgRemoveSuccess))
	s.publish(ctx, event)

	return nil
}

func (s *Store) removeProduct(ctx context.Context, productID int) (*kafka.Event, error) {
	current, err := s.reload(ctx)
	if err != nil {
		return nil, err
	}

	next := make([]product.CartItem, 0, len(current))
	for _, item := range current {
		if item.ID != productID {
			next = append(next, item)
		}
	}

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	if len(next) == len(current) {
		return nil, nil
	}

	return s.event(kafka.EventTypeRemoveFromCart, productID, 0), nil
}

// UpdateProductAmount выставляет количество товара; товара нет в корзине - ничего не меняется.
// Успех не сопровождается уведомлением.
func (s *Store) UpdateProductAmount(ctx context.Context, upd product.UpdateProductAmount) error {
	var (
		event *kafka.Event
		err   error
	)

	if upd.Amount < 1 {
		err = fmt.Errorf("amount %d: %w", upd.Amount, myErr.ErrInvalidAmount)
	} else {
		s.writeMu.Lock()
		var current []product.CartItem
		if current, err = s.reload(ctx); err == nil {
			event, err = s.updateAmount(ctx, current, upd.ProductID, upd.Amount, kafka.EventTypeUpdateAmount)
		}
		s.writeMu.Unlock()
	}

	if err != nil {
		observe(opUpdate, err)
		s.deps.Logger.Warnw("failed to update amount", "cart", s.ID, "product", upd.ProductID, "err", err)
		if errors.Is(err, myErr.ErrOutOfStock) {
			s.notify(ctx, notify.Error(notify.MsgOutOfStock))
		} else {
			s.notify(ctx, notify.Error(notify.MsgUpdateFailure))
		}
		return err
	}

	observe(opUpdate, nil)
	s.publish(ctx, event)

	return nil
}

func (s *Store) updateAmount(
	ctx context.Context,
	current []product.CartItem,
	productID int,
	amount int,
	eventType kafka.EventType,
) (*kafka.Event, error) {
	found := indexOf(current, productID) >= 0
	if found {
		if err := s.checkStock(ctx, productID, amount); err != nil {
			return nil, err
		}
	}

	next := make([]product.CartItem, len(current))
	for i, item := range current {
		if item.ID == productID {
			item.Amount = amount
		}
		next[i] = item
	}

	if err := s.commit(ctx, next); err != nil {
		return nil, err
	}

	if !found {
		return nil, nil
	}

	return s.event(eventType, productID, amount), nil
}

func (s *Store) checkStock(ctx context.Context, productID, amount int) error {
	if !s.deps.EnforceStock {
		return nil
	}

	stock, err := s.deps.Catalog.GetStock(ctx, productID)
	if err != nil {
		return fmt.Errorf("fetch stock %d: %w", productID, err)
	}
	if amount > stock.Amount {
		return fmt.Errorf("product %d: want %d, have %d: %w", productID, amount, stock.Amount, myErr.ErrOutOfStock)
	}

	return nil
}

// commit пишет новый снимок в хранилище и только после успеха подменяет его в памяти
func (s *Store) commit(ctx context.Context, next []product.CartItem) error {
	if err := s.deps.Storage.Save(ctx, s.Key, next); err != nil {
		return fmt.Errorf("save cart %s: %w", s.ID, err)
	}

	s.snapMu.Lock()
	s.items = next
	s.snapMu.Unlock()

	s.listenersMu.Lock()
	listeners := make([]func([]product.CartItem), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.listenersMu.Unlock()

	for _, fn := range listeners {
		fn(clone(next))
	}

	return nil
}

func (s *Store) notify(ctx context.Context, n notify.Notification) {
	s.deps.Notifier.Notify(n)
	if extra := notify.FromContext(ctx); extra != nil {
		extra.Notify(n)
	}
}

func (s *Store) event(t kafka.EventType, productID, amount int) *kafka.Event {
	return &kafka.Event{
		CartID:    s.ID,
		Type:      t,
		ProductID: productID,
		Amount:    amount,
		Timestamp: time.Now(),
	}
}

func (s *Store) publish(ctx context.Context, event *kafka.Event) {
	if event == nil || s.deps.Events == nil {
		return
	}

	if err := s.deps.Events.SendEvent(ctx, *event); err != nil {
		s.deps.Logger.Warnf("failed to send %s event for cart %s: %v", event.Type, s.ID, err)
	}
}

func indexOf(items []product.CartItem, productID int) int {
	for i, item := range items {
		if item.ID == productID {
			return i
		}
	}

	return -1
}

func clone(items []product.CartItem) []product.CartItem {
	res := make([]product.CartItem, len(items))
	copy(res, items)

	return res
}
