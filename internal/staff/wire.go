//go:build wireinject
// +build wireinject

package staff

import (
	"github.com/google/wire"

	"github.com/veloretail/backoffice/internal/cache"
	"github.com/veloretail/backoffice/internal/config"
	httpDelivery "github.com/veloretail/backoffice/internal/staff/delivery/http"
	"github.com/veloretail/backoffice/internal/store"
)

// InitializeHTTPHandler initializes the staff HTTP handler with all dependencies
func InitializeHTTPHandler(cfg config.Config, st store.Store, writer *store.AdaptiveWriter, c cache.Cache) (*httpDelivery.StaffHandler, error) {
	wire.Build(
		StaffSet,
		httpDelivery.NewStaffHandler,
	)
	return nil, nil
}

// InitializeAuthMiddleware initializes the shared identity middleware
func InitializeAuthMiddleware(cfg config.Config, st store.Store, writer *store.AdaptiveWriter, c cache.Cache) (*httpDelivery.AuthMiddleware, error) {
	wire.Build(StaffSet)
	return nil, nil
}
