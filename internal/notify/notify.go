package notify

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Тексты уведомлений, которые видит покупатель
const (
	MsgAddSuccess    = "Produto adicionado com sucesso"
	MsgAddFailure    = "Não foi possível adicionar produto ao carrinho"
	MsgRemoveSuccess = "Produto removido com sucesso!"
	MsgRemoveFailure = "Não foi possível remover produto ao carrinho"
	MsgUpdateFailure = "Não foi possível atualizar carrinho"
	MsgOutOfStock    = "Quantidade solicitada fora de estoque"
)

// Notification - одно уведомление для покупателя
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func Success(msg string) Notification {
	return Notification{Level: LevelSuccess, Message: msg}
}

func Error(msg string) Notification {
	return Notification{Level: LevelError, Message: msg}
}

// Notifier доставляет уведомления покупателю
type Notifier interface {
	Notify(n Notification)
}

// Recorder копит уведомления, чтобы отдать их клиенту в ответе
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications = append(r.notifications, n)
}

// Notifications возвращает копию накопленных уведомлений
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := make([]Notification, len(r.notifications))
	copy(res, r.notifications)

	return res
}

// Last последнее уведомление, ok == false если их не было
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.notifications) == 0 {
		return Notification{}, false
	}

	return r.notifications[len(r.notifications)-1], true
}

// LogNotifier пишет уведомления в лог
type LogNotifier struct {
	Logger *zap.SugaredLogger
}

func NewLogNotifier(logger *zap.SugaredLogger) *LogNotifier {
	return &LogNotifier{Logger: logger}
}

func (l *LogNotifier) Notify(n Notification) {
	if n.Level == LevelError {
		l.Logger.Warnw("cart notification", "level", n.Level, "message", n.Message)
		return
	}
	l.Logger.Infow("cart notification", "level", n.Level, "message", n.Message)
}

type ctxKey struct{}

// NewContext добавляет в контекст получателя уведомлений текущего запроса
func NewContext(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, ctxKey{}, n)
}

// FromContext достаёт получателя уведомлений из контекста, nil если его нет
func FromContext(ctx context.Context) Notifier {
	n, _ := ctx.Value(ctxKey{}).(Notifier)
	return n
}
