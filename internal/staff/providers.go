package staff

import (
	"github.com/google/wire"

	"github.com/veloretail/backoffice/internal/cache"
	"github.com/veloretail/backoffice/internal/config"
	httpDelivery "github.com/veloretail/backoffice/internal/staff/delivery/http"
	"github.com/veloretail/backoffice/internal/staff/domain"
	"github.com/veloretail/backoffice/internal/staff/repository"
	"github.com/veloretail/backoffice/internal/staff/usecase/command"
	"github.com/veloretail/backoffice/internal/staff/usecase/query"
	"github.com/veloretail/backoffice/internal/store"
	"github.com/veloretail/backoffice/pkg/auth"
)

// ProvideStaffRepository provides the staff repository
func ProvideStaffRepository(st store.Store, writer *store.AdaptiveWriter) domain.StaffRepository {
	return repository.NewStoreStaffRepository(st, writer)
}

// ProvideTokenCodec provides the staff session token codec
func ProvideTokenCodec(cfg config.Config) *auth.TokenCodec {
	return auth.NewTokenCodec(cfg.StaffTokenSecret)
}

func ProvideResolveContextHandler(codec *auth.TokenCodec, repo domain.StaffRepository, c cache.Cache) *query.ResolveContextHandler {
	return query.NewResolveContextHandler(codec, repo, c)
}

func ProvideLoginStaffHandler(repo domain.StaffRepository, codec *auth.TokenCodec, cfg config.Config) *command.LoginStaffHandler {
	return command.NewLoginStaffHandler(repo, codec, cfg.StaffTokenTTL)
}

func ProvideCreateStaffHandler(repo domain.StaffRepository) *command.CreateStaffHandler {
	return command.NewCreateStaffHandler(repo)
}

func ProvideListStaffHandler(repo domain.StaffRepository) *query.ListStaffHandler {
	return query.NewListStaffHandler(repo)
}

// ProvideAuthMiddleware provides the request identity middleware shared by
// every feature's delivery layer.
func ProvideAuthMiddleware(cfg config.Config, resolver *query.ResolveContextHandler) *httpDelivery.AuthMiddleware {
	return httpDelivery.NewAuthMiddleware(cfg.AccountJWTSecret, resolver, cfg.DefaultOutletID)
}

// Wire sets
var StaffSet = wire.NewSet(
	ProvideStaffRepository,
	ProvideTokenCodec,
	ProvideResolveContextHandler,
	ProvideLoginStaffHandler,
	ProvideCreateStaffHandler,
	ProvideListStaffHandler,
	ProvideAuthMiddleware,
)
