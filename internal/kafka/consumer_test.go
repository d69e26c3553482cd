package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
)

// fakeReader реализует ReaderInterface и отдаёт заранее подготовленные сообщения и ошибки.
type fakeReader struct {
	// messages — список сообщений, которые нужно отдать в порядке индексов.
	messages []kafka.Message
	// errors — ошибки, которые нужно вернуть после того, как закончатся messages.
	// После исчерпания всех сообщений и ошибок вернётся context.Canceled.
	errors []error
	idx    int
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if f.idx < len(f.messages) {
		msg := f.messages[f.idx]
		f.idx++
		return msg, nil
	}
	errIdx := f.idx - len(f.messages)
	if errIdx < len(f.errors) {
		err := f.errors[errIdx]
		f.idx++
		return kafka.Message{}, err
	}
	return kafka.Message{}, context.Canceled
}

func (f *fakeReader) Close() error {
	return nil
}

func TestConsumer_Consume_ValidEvent(t *testing.T) {
	evt := Event{
		CartID:    "cart-1",
		Type:      EventTypeAddToCart,
		ProductID: 2,
		Amount:    1,
		Timestamp: time.Now().UTC(),
	}
	payload, _ := json.Marshal(evt) // nolint:errcheck

	// после сообщения - временная ошибка чтения, её Consume пропускает
	fr := &fakeReader{
		messages: []kafka.Message{{Value: payload}},
		errors:   []error{errors.New("temporary"), context.Canceled},
	}
	consumer := &Consumer{
		Reader: fr,
		Logger: zapTestLogger(t),
	}

	var received []Event
	consumer.Consume(context.Background(), func(ctx context.Context, e Event) error {
		received = append(received, e)
		return nil
	})

	if len(received) != 1 {
		t.Fatalf("ожидали 1 событие, получили %d", len(received))
	}
	if received[0].CartID != evt.CartID || received[0].Type != evt.Type {
		t.Errorf("ожидали %+v, получили %+v", evt, received[0])
	}
	if received[0].ProductID != 2 || received[0].Amount != 1 {
		t.Errorf("неверный товар в событии: %+v", received[0])
	}
}

func TestConsumer_Consume_InvalidJSON(t *testing.T) {
	fr := &fakeReader{
		messages: []kafka.Message{{Value: []byte(`{"cart_id": 123, bad json`)}},
	}
	consumer := &Consumer{
		Reader: fr,
		Logger: zapTestLogger(t),
	}

	called := false
	consumer.Consume(context.Background(), func(ctx context.Context, e Event) error {
		called = true
		return nil
	})

	// При некорректном JSON handler НЕ должен вызываться
	if called {
		t.Error("ожидали, что handler НЕ будет вызван при некорректном JSON")
	}
}

func TestConsumer_Consume_HandlerError(t *testing.T) {
	payload, _ := json.Marshal(Event{CartID: "cart-err", Type: EventTypeRemoveFromCart}) // nolint:errcheck
	fr := &fakeReader{
		messages: []kafka.Message{{Value: payload}, {Value: payload}},
	}
	consumer := &Consumer{
		Reader: fr,
		Logger: zapTestLogger(t),
	}

	calls := 0
	consumer.Consume(context.Background(), func(ctx context.Context, e Event) error {
		calls++
		return errors.New("simulated handler failure")
	})

	// ошибка обработчика не останавливает чтение
	if calls != 2 {
		t.Errorf("ожидали 2 вызова handler, получили %d", calls)
	}
}
