package cart

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	myErr "rocketshoes-cart/internal/types/errors"
)

const (
	opAdd    = "add"
	opRemove = "remove"
	opUpdate = "update"
)

var cartOperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Total number of cart operations by outcome",
	},
	[]string{"operation", "status"},
)

func init() {
	prometheus.MustRegister(cartOperationsTotal)
}

func observe(op string, err error) {
	cartOperationsTotal.WithLabelValues(op, status(err)).Inc()
}

func status(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, myErr.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, myErr.ErrNotFound):
		return "not_found"
	case errors.Is(err, myErr.ErrCatalog):
		return "catalog_error"
	case errors.Is(err, myErr.ErrInvalidAmount):
		return "invalid"
	default:
		return "storage_error"
	}
}
