package kafka

import "time"

type EventType string

const (
	EventTypeAddToCart      EventType = "addToCart"
	EventTypeRemoveFromCart EventType = "removeFromCart"
	EventTypeUpdateAmount   EventType = "updateAmount"
)

// Event - событие изменения корзины
type Event struct {
	CartID    string    `json:"cart_id"`
	Type      EventType `json:"type"`
	ProductID int       `json:"product_id"`
	Amount    int       `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}
