package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rocketshoes-cart/internal/cart"
	"rocketshoes-cart/internal/contextutil"
	"rocketshoes-cart/internal/notify"
	myErr "rocketshoes-cart/internal/types/errors"
	"rocketshoes-cart/internal/types/product"
)

// CartHandler ручки корзины
type CartHandler struct {
	Logger *zap.SugaredLogger
	Carts  cart.Carts
}

// NewCartHandler конструктор
func NewCartHandler(log *zap.SugaredLogger, carts cart.Carts) *CartHandler {
	return &CartHandler{
		Logger: log,
		Carts:  carts,
	}
}

// CartView - ответ с содержимым корзины
type CartView struct {
	CartID       string               `json:"cart_id"`
	Items        []product.CartItem   `json:"items"`
	Total        decimal.Decimal      `json:"total"`
	Count        int                  `json:"count"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

// OperationError - ответ при неудачной операции с корзиной
type OperationError struct {
	Message      string               `json:"message"`
	Notification *notify.Notification `json:"notification,omitempty"`
}

type amountRequest struct {
	Amount *int `json:"amount"`
}

// Create - POST /api/cart
// Выдаёт id новой пустой корзины
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	cartID := cart.NewCartID()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(map[string]string{"cart_id": cartID}); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
		return
	}

	h.Logger.Infof("issued cart id %s", cartID)
}

// GetCart - GET /api/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	// в кэше может лежать устаревшая версия, её мог поменять другой процесс
	if err := store.Load(r.Context()); err != nil {
		h.Logger.Errorw("failed to refresh cart", "cart", store.ID, "err", err)
		myErr.SendErrorTo(w, err, myErr.StatusCode(err), h.Logger)
		return
	}

	h.writeCart(w, http.StatusOK, store, nil)
}

// AddProduct - POST /api/cart/products/{id}
func (h *CartHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	rec := notify.NewRecorder()
	err := store.AddProduct(notify.NewContext(r.Context(), rec), productID)
	if err != nil {
		h.sendOperationError(w, err, rec)
		return
	}

	h.writeCart(w, http.StatusCreated, store, rec)
	h.Logger.Infof("added product %d to cart %s", productID, store.ID)
}

// RemoveProduct - DELETE /api/cart/products/{id}
func (h *CartHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}
	store, ok := h.store(w, r)
	if !ok {
		return
	}

	rec := notify.NewRecorder()
	err := store.RemoveProduct(notify.NewContext(r.Context(), rec), productID)
	if err != nil {
		h.sendOperationError(w, err, rec)
		return
	}

	h.writeCart(w, http.StatusOK, store, rec)
	h.Logger.Infof("removed product %d from cart %s", productID, store.ID)
}

// UpdateProductAmount - PUT /api/cart/products/{id}
// Принимает в теле запроса {"amount": <количество>}
func (h *CartHandler) UpdateProductAmount(w http.ResponseWriter, r *http.Request) {
	productID, ok := h.productID(w, r)
	if !ok {
		return
	}

	var req amountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount == nil {
		myErr.SendErrorTo(w, myErr.ErrInvalidJSONPayload, http.StatusBadRequest, h.Logger)
		return
	}

	store, ok := h.store(w, r)
	if !ok {
		return
	}

	rec := notify.NewRecorder()
	err := store.UpdateProductAmount(notify.NewContext(r.Context(), rec), product.UpdateProductAmount{
		ProductID: productID,
		Amount:    *req.Amount,
	})
	if err != nil {
		h.sendOperationError(w, err, rec)
		return
	}

	h.writeCart(w, http.StatusOK, store, rec)
	h.Logger.Infof("set amount of product %d in cart %s to %d", productID, store.ID, *req.Amount)
}

func (h *CartHandler) productID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		myErr.SendErrorTo(w, myErr.ErrBadID, http.StatusBadRequest, h.Logger)
		return 0, false
	}

	return id, true
}

func (h *CartHandler) store(w http.ResponseWriter, r *http.Request) (*cart.Store, bool) {
	cartID, ok := contextutil.GetCartIDFromContext(r.Context())
	if !ok {
		myErr.SendErrorTo(w, myErr.ErrNoCartID, http.StatusBadRequest, h.Logger)
		return nil, false
	}

	store, err := h.Carts.Get(r.Context(), cartID)
	if err != nil {
		if !errors.Is(err, myErr.ErrBadID) {
			h.Logger.Errorw("failed to load cart", "cart", cartID, "err", err)
		}
		myErr.SendErrorTo(w, err, myErr.StatusCode(err), h.Logger)
		return nil, false
	}

	return store, true
}

func (h *CartHandler) writeCart(w http.ResponseWriter, status int, store *cart.Store, rec *notify.Recorder) {
	items := store.Cart()
	view := CartView{
		CartID: store.ID,
		Items:  items,
		Total:  product.Total(items),
		Count:  len(items),
	}
	if rec != nil {
		if n, ok := rec.Last(); ok {
			view.Notification = &n
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(view); err != nil {
		h.Logger.Warnw("error writing response", "err", err)
	}
}

func (h *CartHandler) sendOperationError(w http.ResponseWriter, err error, rec *notify.Recorder) {
	resp := OperationError{Message: err.Error()}
	if n, ok := rec.Last(); ok {
		resp.Notification = &n
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(myErr.StatusCode(err))
	if errEncode := json.NewEncoder(w).Encode(resp); errEncode != nil {
		h.Logger.Error(errEncode)
	}
}
