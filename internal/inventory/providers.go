package inventory

import (
	"github.com/google/wire"

	catalogdomain "github.com/veloretail/backoffice/internal/catalog/domain"
	catalogrepo "github.com/veloretail/backoffice/internal/catalog/repository"
	"github.com/veloretail/backoffice/internal/inventory/domain"
	"github.com/veloretail/backoffice/internal/inventory/repository"
	"github.com/veloretail/backoffice/internal/inventory/usecase/command"
	"github.com/veloretail/backoffice/internal/inventory/usecase/query"
	"github.com/veloretail/backoffice/internal/store"
)

// ProvideMovementRepository provides the ledger repository wrapped with tracing
func ProvideMovementRepository(st store.Store, writer *store.AdaptiveWriter) domain.MovementRepository {
	return repository.NewTracingMovementRepository(repository.NewStoreMovementRepository(st, writer))
}

func ProvideInvoiceRepository(st store.Store, writer *store.AdaptiveWriter) domain.InvoiceRepository {
	return repository.NewStoreInvoiceRepository(st, writer)
}

func ProvideSessionRepository(st store.Store, writer *store.AdaptiveWriter) domain.SessionRepository {
	return repository.NewStoreSessionRepository(st, writer)
}

func ProvideProductRepository(st store.Store, writer *store.AdaptiveWriter) catalogdomain.ProductRepository {
	return catalogrepo.NewStoreProductRepository(st, writer)
}

// Command Handlers Providers
func ProvideReceiveInvoiceHandler(movements domain.MovementRepository, invoices domain.InvoiceRepository, products catalogdomain.ProductRepository) *command.ReceiveInvoiceHandler {
	return command.NewReceiveInvoiceHandler(movements, invoices, products)
}

func ProvideRecordAdjustmentHandler(movements domain.MovementRepository, products catalogdomain.ProductRepository) *command.RecordAdjustmentHandler {
	return command.NewRecordAdjustmentHandler(movements, products)
}

func ProvideCommitStocktakeHandler(sessions domain.SessionRepository, movements domain.MovementRepository, products catalogdomain.ProductRepository) *command.CommitStocktakeHandler {
	return command.NewCommitStocktakeHandler(sessions, movements, products)
}

// Query Handlers Providers
func ProvideReceivedQuantitiesHandler(movements domain.MovementRepository, invoices domain.InvoiceRepository) *query.ReceivedQuantitiesHandler {
	return query.NewReceivedQuantitiesHandler(movements, invoices)
}

func ProvideListMovementsHandler(movements domain.MovementRepository) *query.ListMovementsHandler {
	return query.NewListMovementsHandler(movements)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideMovementRepository,
	ProvideInvoiceRepository,
	ProvideSessionRepository,
	ProvideProductRepository,
)

var HandlerSet = wire.NewSet(
	ProvideReceiveInvoiceHandler,
	ProvideRecordAdjustmentHandler,
	ProvideCommitStocktakeHandler,
	ProvideReceivedQuantitiesHandler,
	ProvideListMovementsHandler,
)

var InventorySet = wire.NewSet(
	RepositorySet,
	HandlerSet,
)
