//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"

	httpDelivery "github.com/veloretail/backoffice/internal/inventory/delivery/http"
	staffhttp "github.com/veloretail/backoffice/internal/staff/delivery/http"
	"github.com/veloretail/backoffice/internal/store"
	"github.com/veloretail/backoffice/kafka"
)

// InitializeHTTPHandler initializes the inventory HTTP handler with all dependencies
func InitializeHTTPHandler(st store.Store, writer *store.AdaptiveWriter, middleware *staffhttp.AuthMiddleware, publisher *kafka.Publisher) (*httpDelivery.InventoryHandler, error) {
	wire.Build(
		InventorySet,
		httpDelivery.NewInventoryHandler,
	)
	return nil, nil
}
