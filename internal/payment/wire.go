//go:build wireinject
// +build wireinject

package payment

import (
	"github.com/google/wire"

	httpDelivery "github.com/veloretail/backoffice/internal/payment/delivery/http"
	staffhttp "github.com/veloretail/backoffice/internal/staff/delivery/http"
	"github.com/veloretail/backoffice/internal/store"
	"github.com/veloretail/backoffice/kafka"
)

// InitializeHTTPHandler initializes the payment HTTP handler with all dependencies
func InitializeHTTPHandler(st store.Store, writer *store.AdaptiveWriter, middleware *staffhttp.AuthMiddleware, publisher *kafka.Publisher) (*httpDelivery.PaymentHandler, error) {
	wire.Build(
		PaymentSet,
		httpDelivery.NewPaymentHandler,
	)
	return nil, nil
}
