package errors

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

var (
	ErrDBInternal = errors.New("database internal error")
	ErrNotFound   = errors.New("record not found")
	ErrStorage    = errors.New("cart storage error")
	ErrCorrupted  = errors.New("stored cart snapshot is corrupted")

	ErrCatalog    = errors.New("catalog service error")
	ErrOutOfStock = errors.New("requested amount is out of stock")

	ErrBadID         = errors.New("bad id")
	ErrNoCartID      = errors.New("cart id required")
	ErrInvalidAmount = errors.New("invalid amount")

	ErrInvalidJSONPayload = errors.New("invalid JSON payload")
)

type ErrorServer struct {
	Message string `json:"message"`
}

func (e *ErrorServer) Error() string {
	return e.Message
}

/*
NewErrorServer
Функция имеет возможность принимать "nil ошибку"
при получении nil наша функция понимает, что нам
просто надо отдать саксесс клиенту
*/
func NewErrorServer(err error) ErrorServer {
	if err == nil {
		return ErrorServer{
			Message: "success",
		}
	}

	return ErrorServer{
		Message: err.Error(),
	}
}

func SendErrorTo(w http.ResponseWriter, err error, statusCode int, logger *zap.SugaredLogger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if errEncode := json.NewEncoder(w).Encode(NewErrorServer(err)); errEncode != nil {
		logger.Error(errEncode)
	}
}

// StatusCode подбирает HTTP статус под ошибку корзины
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrBadID), errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrInvalidJSONPayload), errors.Is(err, ErrNoCartID):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrOutOfStock):
		return http.StatusConflict
	case errors.Is(err, ErrCatalog):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
